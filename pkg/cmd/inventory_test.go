package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInventorySubcommands(t *testing.T) {
	var names []string
	for _, sc := range InventoryCommand.Subcommands {
		names = append(names, sc.Name)
	}
	require.ElementsMatch(t, []string{"list", "services", "show", "validate"}, names)
}
