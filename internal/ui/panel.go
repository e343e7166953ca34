package ui

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/multitoken-labs/m1155/internal/session"
	"github.com/multitoken-labs/m1155/internal/txstate"
)

// panelTab is one screen of the interactive panel.
type panelTab int

const (
	tabOverview panelTab = iota
	tabBalances
	tabTransfer
	tabMint
	tabApprove
)

var tabNames = []string{"Overview", "Balances", "Transfer", "Mint", "Approve"}

type (
	infoLoadedMsg struct {
		info session.ContractInfo
		err  error
	}
	balancesLoadedMsg struct {
		rows []session.Balance
		err  error
	}
	txResultMsg struct {
		hash string
		err  error
	}
	stateChangedMsg txstate.RequestState
)

// PanelModel is the Bubble Tea model for the interactive contract panel. One
// write operation runs at a time; its lifecycle is streamed into the status
// line through the state channel.
type PanelModel struct {
	sess     *session.Session
	network  string
	contract string
	account  string // signer address, empty in read-only mode
	states   <-chan txstate.RequestState

	tab    panelTab
	inputs []textinput.Model
	focus  int
	spin   spinner.Model
	busy   bool

	status   txstate.RequestState
	info     *session.ContractInfo
	balances []session.Balance
	flash    string

	quitting bool
}

// NewPanel builds the panel model. states carries request state transitions
// from the session's tracker listener.
func NewPanel(sess *session.Session, network, contract, account string, states <-chan txstate.RequestState) PanelModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = StyleToken

	m := PanelModel{
		sess:     sess,
		network:  network,
		contract: contract,
		account:  account,
		states:   states,
		status:   txstate.Idle{},
		spin:     sp,
	}
	m.rebuildInputs()
	return m
}

// RunPanel launches the panel with altscreen.
func RunPanel(m PanelModel) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("panel: %w", err)
	}
	return nil
}

func (m PanelModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.fetchInfoCmd(), m.waitForState())
}

func (m PanelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.editingText() && msg.String() == "q" {
				break // let "q" reach the focused input
			}
			m.quitting = true
			return m, tea.Quit
		case "tab":
			m.tab = (m.tab + 1) % panelTab(len(tabNames))
			m.flash = ""
			m.rebuildInputs()
			return m, nil
		case "shift+tab":
			m.tab = (m.tab + panelTab(len(tabNames)) - 1) % panelTab(len(tabNames))
			m.flash = ""
			m.rebuildInputs()
			return m, nil
		case "up":
			m.setFocus(m.focus - 1)
			return m, nil
		case "down":
			m.setFocus(m.focus + 1)
			return m, nil
		case "enter":
			if m.busy {
				return m, nil
			}
			return m, m.submitCmd()
		case "r":
			if !m.editingText() && m.tab == tabOverview {
				return m, m.fetchInfoCmd()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case stateChangedMsg:
		m.status = txstate.RequestState(msg)
		return m, m.waitForState()

	case infoLoadedMsg:
		m.busy = false
		if msg.err != nil {
			m.flash = Err(msg.err.Error())
		} else {
			info := msg.info
			m.info = &info
		}
		return m, nil

	case balancesLoadedMsg:
		m.busy = false
		if msg.err != nil {
			m.flash = Err(msg.err.Error())
		} else {
			m.balances = msg.rows
			m.flash = ""
		}
		return m, nil

	case txResultMsg:
		m.busy = false
		if msg.err != nil {
			m.flash = Err(msg.err.Error())
		} else {
			m.flash = Success("mined " + TruncateAddr(msg.hash))
			m.balances = m.sess.Balances().Value
		}
		return m, nil
	}

	// Route remaining messages to the focused input.
	if len(m.inputs) > 0 {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m PanelModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(StyleTitle.Render("  Multi-Token Panel  ·  "+m.network) + "\n")
	sb.WriteString("  " + StyleMeta.Render("Contract") + "  " + StyleAddress.Render(m.contract) + "\n")
	if m.account != "" {
		sb.WriteString("  " + StyleMeta.Render("Signer  ") + "  " + StyleAddress.Render(m.account) + "\n")
	} else {
		sb.WriteString("  " + StyleMeta.Render("Signer  ") + "  " + StyleMeta.Render("read-only") + "\n")
	}
	sb.WriteString("\n" + m.tabBar() + "\n\n")

	switch m.tab {
	case tabOverview:
		sb.WriteString(m.overviewView())
	case tabBalances:
		sb.WriteString(m.formView("Query balances", "enter to fetch"))
		if len(m.balances) > 0 {
			t := NewTable([]Column{
				{Title: "Account", Width: 14},
				{Title: "Token", Width: 10},
				{Title: "Balance", Width: 24},
			})
			for _, b := range m.balances {
				t.AddRow(Row{TruncateAddr(b.Account), "#" + b.ID.String(), b.Amount.String()})
			}
			sb.WriteString("\n" + t.Render())
		}
	case tabTransfer:
		sb.WriteString(m.formView("Transfer tokens", "enter to submit"))
	case tabMint:
		sb.WriteString(m.formView("Mint tokens", "enter to submit"))
	case tabApprove:
		sb.WriteString(m.formView("Operator approval", "enter to submit"))
	}

	sb.WriteString("\n")
	if m.busy {
		sb.WriteString("  " + m.spin.View() + " " + StyleMeta.Render("working") + "\n")
	}
	sb.WriteString("  " + RequestStatus(m.status) + "\n")
	if m.flash != "" {
		sb.WriteString("  " + m.flash + "\n")
	}
	sb.WriteString("\n" + StyleMeta.Render("  [ tab ] switch  [ ↑↓ ] field  [ enter ] run  [ q ] quit") + "\n")
	return sb.String()
}

func (m PanelModel) tabBar() string {
	parts := make([]string, len(tabNames))
	for i, name := range tabNames {
		if panelTab(i) == m.tab {
			parts[i] = StyleSelected.Render(" " + name + " ")
		} else {
			parts[i] = StyleMeta.Render(" " + name + " ")
		}
	}
	return "  " + strings.Join(parts, "")
}

func (m PanelModel) overviewView() string {
	if m.info == nil {
		return "  " + StyleMeta.Render("Loading contract info… (r to refresh)") + "\n"
	}
	paused := "no"
	if m.info.Paused.Value {
		paused = "yes"
	}
	return KeyValueBlock("Contract", [][2]string{
		{"Address", m.info.Address},
		{"Owner", probeText(m.info.Owner.Supported, m.info.Owner.Value)},
		{"Paused", probeText(m.info.Paused.Supported, paused)},
		{"Base URI", probeText(m.info.BaseURI.Supported, m.info.BaseURI.Value)},
	}) + "\n"
}

func probeText(supported bool, v string) string {
	if !supported {
		return "(not exported by this deployment)"
	}
	return v
}

func (m PanelModel) formView(title, hint string) string {
	var sb strings.Builder
	sb.WriteString("  " + StyleHeader.Render(title) + "  " + StyleMeta.Render(hint) + "\n\n")
	for i, in := range m.inputs {
		cursor := "  "
		if i == m.focus {
			cursor = StyleToken.Render("▸ ")
		}
		sb.WriteString("  " + cursor + in.View() + "\n")
	}
	return sb.String()
}

// editingText reports whether a focused input should swallow plain letters.
func (m PanelModel) editingText() bool {
	return len(m.inputs) > 0 && m.inputs[m.focus].Focused()
}

func (m *PanelModel) setFocus(i int) {
	if len(m.inputs) == 0 {
		return
	}
	if i < 0 {
		i = 0
	}
	if i >= len(m.inputs) {
		i = len(m.inputs) - 1
	}
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

func (m *PanelModel) rebuildInputs() {
	mk := func(placeholder string, width int) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.Width = width
		in.PromptStyle = StyleMeta
		return in
	}

	switch m.tab {
	case tabBalances:
		m.inputs = []textinput.Model{
			mk("account 0x…", 46),
			mk("token ids, comma separated (e.g. 1,2,7)", 46),
		}
	case tabTransfer:
		m.inputs = []textinput.Model{
			mk("to 0x…", 46),
			mk("token id", 20),
			mk("amount", 20),
		}
	case tabMint:
		m.inputs = []textinput.Model{
			mk("to 0x…", 46),
			mk("token id (empty for auto)", 26),
			mk("amount", 20),
		}
	case tabApprove:
		m.inputs = []textinput.Model{
			mk("operator 0x…", 46),
			mk("approved? y/n", 14),
		}
	default:
		m.inputs = nil
	}
	m.focus = 0
	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
	}
}

func (m PanelModel) waitForState() tea.Cmd {
	return func() tea.Msg {
		return stateChangedMsg(<-m.states)
	}
}

func (m PanelModel) fetchInfoCmd() tea.Cmd {
	return func() tea.Msg {
		info, err := m.sess.FetchContractInfo(context.Background())
		return infoLoadedMsg{info: info, err: err}
	}
}

func (m *PanelModel) submitCmd() tea.Cmd {
	switch m.tab {
	case tabBalances:
		account := strings.TrimSpace(m.inputs[0].Value())
		ids, err := parseIDList(m.inputs[1].Value())
		if err != nil {
			m.flash = Err(err.Error())
			return nil
		}
		accounts := make([]string, len(ids))
		for i := range accounts {
			accounts[i] = account
		}
		m.busy = true
		return func() tea.Msg {
			rows, err := m.sess.FetchBalances(context.Background(), accounts, ids)
			return balancesLoadedMsg{rows: rows, err: err}
		}

	case tabTransfer:
		to := strings.TrimSpace(m.inputs[0].Value())
		id, ok := new(big.Int).SetString(strings.TrimSpace(m.inputs[1].Value()), 10)
		if !ok {
			m.flash = Err("token id must be a decimal integer")
			return nil
		}
		amount, ok := new(big.Int).SetString(strings.TrimSpace(m.inputs[2].Value()), 10)
		if !ok {
			m.flash = Err("amount must be a decimal integer")
			return nil
		}
		m.busy = true
		return func() tea.Msg {
			hash, err := m.sess.Transfer(context.Background(), m.account, to, id, amount, nil)
			return txResultMsg{hash: hash, err: err}
		}

	case tabMint:
		to := strings.TrimSpace(m.inputs[0].Value())
		idText := strings.TrimSpace(m.inputs[1].Value())
		amount, ok := new(big.Int).SetString(strings.TrimSpace(m.inputs[2].Value()), 10)
		if !ok {
			m.flash = Err("amount must be a decimal integer")
			return nil
		}
		m.busy = true
		if idText == "" {
			return func() tea.Msg {
				hash, err := m.sess.MintAuto(context.Background(), to, amount, nil)
				return txResultMsg{hash: hash, err: err}
			}
		}
		id, ok := new(big.Int).SetString(idText, 10)
		if !ok {
			m.busy = false
			m.flash = Err("token id must be a decimal integer")
			return nil
		}
		return func() tea.Msg {
			hash, err := m.sess.Mint(context.Background(), to, id, amount, nil)
			return txResultMsg{hash: hash, err: err}
		}

	case tabApprove:
		operator := strings.TrimSpace(m.inputs[0].Value())
		answer := strings.ToLower(strings.TrimSpace(m.inputs[1].Value()))
		approved := answer == "y" || answer == "yes" || answer == "true"
		m.busy = true
		return func() tea.Msg {
			hash, err := m.sess.SetApproval(context.Background(), operator, approved)
			return txResultMsg{hash: hash, err: err}
		}
	}
	return nil
}

// parseIDList parses "1,2,7" into token ids.
func parseIDList(s string) ([]*big.Int, error) {
	parts := strings.Split(s, ",")
	ids := make([]*big.Int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, ok := new(big.Int).SetString(p, 10)
		if !ok {
			return nil, fmt.Errorf("invalid token id %q", p)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("at least one token id is required")
	}
	return ids, nil
}
