package config

import (
	"flag"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	type want struct {
		apiAddress string
		tokenFile  string
		runAddress string
	}

	tests := []struct {
		name  string
		env   map[string]string
		flags []string
		want  want
	}{
		{
			name:  "defaults",
			env:   map[string]string{},
			flags: []string{},
			want: want{
				apiAddress: "http://localhost:8080/api",
				tokenFile:  DefaultTokenFile(),
				runAddress: "localhost:8080",
			},
		},
		{
			name: "env only",
			env: map[string]string{
				"ARTMARKET_API_ADDRESS": "https://market.example.com/api",
				"ARTMARKET_TOKEN_FILE":  "/tmp/session.json",
				"RUN_ADDRESS":           "localhost:9999",
			},
			flags: []string{},
			want: want{
				apiAddress: "https://market.example.com/api",
				tokenFile:  "/tmp/session.json",
				runAddress: "localhost:9999",
			},
		},
		{
			name: "flags only",
			env:  map[string]string{},
			flags: []string{
				"-r", "http://localhost:7777/api",
				"-t", "/tmp/flag-session.json",
				"-a", "localhost:7777",
			},
			want: want{
				apiAddress: "http://localhost:7777/api",
				tokenFile:  "/tmp/flag-session.json",
				runAddress: "localhost:7777",
			},
		},
		{
			name: "env overrides flags",
			env: map[string]string{
				"ARTMARKET_API_ADDRESS": "https://env.example.com/api",
				"ARTMARKET_TOKEN_FILE":  "/tmp/env-session.json",
				"RUN_ADDRESS":           "env:9000",
			},
			flags: []string{
				"-r", "http://flag.example.com/api",
				"-t", "/tmp/flag-session.json",
				"-a", "flag:8000",
			},
			want: want{
				apiAddress: "https://env.example.com/api",
				tokenFile:  "/tmp/env-session.json",
				runAddress: "env:9000",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			os.Args = append([]string{"test"}, tt.flags...)

			cfg, err := Parse()
			require.NoError(t, err)

			assert.Equal(t, tt.want.apiAddress, cfg.APIAddress)
			assert.Equal(t, tt.want.tokenFile, cfg.TokenFile)
			assert.Equal(t, tt.want.runAddress, cfg.RunAddress)
		})
	}
}
