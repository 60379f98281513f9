package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testdata = "../../internal/app/testdata/"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	t.Setenv("DATA_HOLLYWOOD_ITEMS", testdata+"u.item")
	t.Setenv("DATA_BOLLYWOOD_ITEMS", testdata+"bollywood.csv")
	t.Setenv("DATA_RATINGS", testdata+"u.data")
	t.Setenv("DATA_SIMILARITY", testdata+"user_similarity.csv")

	resetFlags(recommendCmd.Flags())
	defer rootCmd.SetArgs(nil)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

func TestGenresCommand(t *testing.T) {
	out, err := execute(t, "genres")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 18)
	assert.Equal(t, "Action", lines[0])
	assert.Equal(t, "Western", lines[17])
}

func TestRecommendCommand_Hollywood(t *testing.T) {
	out, err := execute(t, "recommend", "--industry", "Hollywood", "--user", "1", "--genre", "thriller")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "SCORE/TAG")
	assert.Contains(t, lines[1], "Four Rooms (1995)")
	assert.Contains(t, lines[1], "4.5")
	assert.Contains(t, lines[1], "Thriller")
	assert.Contains(t, lines[2], "GoldenEye (1995)")
}

func TestRecommendCommand_Bollywood(t *testing.T) {
	out, err := execute(t, "recommend", "--industry", "Bollywood", "--genre", "musical")
	require.NoError(t, err)

	assert.Contains(t, out, "Lagaan")
	assert.Contains(t, out, "IMDb")
}

func TestRecommendCommand_NoMatches(t *testing.T) {
	out, err := execute(t, "recommend", "--industry", "Bollywood", "--genre", "western")
	require.NoError(t, err)
	assert.Equal(t, "No matches found.\n", out)
}

func TestRecommendCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing user", []string{"recommend", "--industry", "Hollywood"}, "--user is required"},
		{"bad industry", []string{"recommend", "--industry", "Tollywood"}, "--industry must be"},
		{"bad genre", []string{"recommend", "--user", "1", "--genre", "masala"}, "unknown genre"},
		{"count too large", []string{"recommend", "--industry", "Bollywood", "--count", "50"}, "--count must be"},
		{"unknown user", []string{"recommend", "--user", "99"}, "not a known user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestUsersCommand(t *testing.T) {
	out, err := execute(t, "users")
	require.NoError(t, err)
	assert.Equal(t, "user ids 1-3\n", out)
}
