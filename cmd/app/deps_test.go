package main

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The ledger keeps state in memory and serves its own read API, so database,
// container and API-doc stacks have no place in the module graph.
func TestGoModHasNoStorageStacks(t *testing.T) {
	data, err := os.ReadFile("../../go.mod")
	require.NoError(t, err)
	mod := string(data)

	for _, path := range []string{
		"github.com/jackc/",
		"github.com/pressly/goose",
		"github.com/sqlc-dev/sqlc",
		"github.com/testcontainers/",
		"github.com/docker/docker",
		"github.com/ClickHouse/",
		"github.com/go-sql-driver/mysql",
		"github.com/ziutek/mymysql",
		"github.com/swaggo/",
		"github.com/bwmarrin/discordgo",
		"modernc.org/sqlite",
	} {
		assert.False(t, strings.Contains(mod, path), "go.mod still requires %s", path)
	}
}
