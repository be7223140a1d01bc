package main

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (*CLI, *kong.Context, error) {
	t.Helper()
	var cli CLI
	parser, err := newParser(&cli,
		kong.Writers(io.Discard, io.Discard),
		kong.Exit(func(code int) { t.Fatalf("unexpected exit with code %d", code) }),
	)
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	return &cli, ctx, err
}

func TestGenerateIsDefaultCommand(t *testing.T) {
	cli, ctx, err := parse(t, "3", "states.bin")
	require.NoError(t, err)

	assert.Equal(t, "generate <nstreams> <output>", ctx.Command())
	assert.Equal(t, 3, cli.Generate.Count)
	assert.Equal(t, "states.bin", filepath.Base(cli.Generate.Output))
	assert.Nil(t, cli.Generate.Seed)
	assert.Nil(t, cli.Generate.Distance)
	assert.Nil(t, cli.Generate.Workers)
	assert.Equal(t, "mtstates.hcl", filepath.Base(cli.Config))
}

func TestGenerateOverrides(t *testing.T) {
	cli, _, err := parse(t, "generate", "2", "out.bin", "--seed", "5", "--distance", "1024", "-w", "3", "--debug")
	require.NoError(t, err)

	require.NotNil(t, cli.Generate.Seed)
	assert.Equal(t, uint32(5), *cli.Generate.Seed)
	require.NotNil(t, cli.Generate.Distance)
	assert.Equal(t, uint64(1024), *cli.Generate.Distance)
	require.NotNil(t, cli.Generate.Workers)
	assert.Equal(t, 3, *cli.Generate.Workers)
	assert.True(t, cli.Debug)
}

func TestParseErrors(t *testing.T) {
	tests := [][]string{
		{"generate", "three", "out.bin"},
		{"generate", "3"},
		{"reshape", "2", "3"},
		{"generate", "3", "out.bin", "--seed", "-1"},
	}
	for _, args := range tests {
		_, _, err := parse(t, args...)
		assert.Error(t, err, "args %v", args)
	}
}

func TestStreamsRequiresRun(t *testing.T) {
	dir := t.TempDir()
	table := filepath.Join(dir, "table.npy")
	require.NoError(t, writeEmptyFile(table))

	_, _, err := parse(t, "streams", table)
	assert.Error(t, err)

	cli, ctx, err := parse(t, "streams", table, "--run", "2")
	require.NoError(t, err)
	assert.Equal(t, "streams <table>", ctx.Command())
	assert.Equal(t, 2, cli.Streams.RunNumber)
	assert.Equal(t, 5, cli.Streams.Draws)
	assert.Equal(t, "uniform", cli.Streams.Dist)

	_, _, err = parse(t, "streams", table, "--run", "1", "--dist", "cauchy")
	assert.Error(t, err)
}
