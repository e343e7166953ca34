package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment variable names read once at process start.
const (
	EnvPrivateKey = "M1155_PRIVATE_KEY"
	EnvDeployAPI  = "M1155_DEPLOY_API"
	EnvRPCURL     = "M1155_RPC_URL"
)

// Env holds values sourced from the process environment and an optional
// .env file in the working directory.
type Env struct {
	PrivateKey   string
	DeployAPIURL string
	RPCURL       string
}

// LoadEnv reads the environment, merging in a .env file when present.
// A missing .env file is not an error.
func LoadEnv() Env {
	_ = godotenv.Load()
	return Env{
		PrivateKey:   os.Getenv(EnvPrivateKey),
		DeployAPIURL: os.Getenv(EnvDeployAPI),
		RPCURL:       os.Getenv(EnvRPCURL),
	}
}
