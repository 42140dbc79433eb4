package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/branched-services/go-tvmcell"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "message.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMessageConfigExample(t *testing.T) {
	cfg, err := loadMessageConfig("ex.message.toml")
	require.NoError(t, err)

	require.Equal(t, kindInternal, cfg.Kind)
	require.Equal(t, "0:83dfd552e63729b472fcbcc8c45ebcc6691702558b68ec7527e1ba403a0f31a8", cfg.Src.String())
	require.Equal(t, "0:ed1691307050047117b998b561d8de82d31fbf84910ced6eb5fc92e7485ef8a7", cfg.Dest.String())
	require.Equal(t, "0.05", cfg.Value.String())
	require.Equal(t, "0.001", cfg.FwdFee.String())
	require.True(t, cfg.IHRFee.IsZero())
	require.True(t, cfg.IHRDisabled)
	require.False(t, cfg.Bounce)
	require.Equal(t, uint64(47000000000001), cfg.CreatedLt)
	require.Equal(t, uint32(1700000000), cfg.CreatedAt)
	require.NotNil(t, cfg.Code)
	require.Equal(t, 80, cfg.Code.BitsLen())
	require.NotNil(t, cfg.Data)
	require.Equal(t, 32, cfg.Data.BitsLen())
	require.NotNil(t, cfg.Comment)
	require.Equal(t, "hello from cellctl", *cfg.Comment)
}

func TestLoadMessageConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
kind = "external"
`)

	cfg, err := loadMessageConfig(path)
	require.NoError(t, err)
	require.Equal(t, kindExternal, cfg.Kind)
	require.Nil(t, cfg.Src)
	require.Nil(t, cfg.Dest)
	require.True(t, cfg.ImportFee.IsZero())
	require.Nil(t, cfg.Code)
	require.Nil(t, cfg.Comment)
}

func TestLoadMessageConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
dest = "-1:3333333333333333333333333333333333333333333333333333333333333333"
ihr_disabled = false
bounce = true
bounced = true
ihr_fee = "0.5"
comment = ""
`)

	cfg, err := loadMessageConfig(path)
	require.NoError(t, err)
	require.Equal(t, kindInternal, cfg.Kind)
	require.Equal(t, int8(-1), cfg.Dest.Workchain)
	require.False(t, cfg.IHRDisabled)
	require.True(t, cfg.Bounce)
	require.True(t, cfg.Bounced)
	require.True(t, cfg.IHRFee.Equal(tvmcell.NewCoins(500_000_000)))
	require.NotNil(t, cfg.Comment)
	require.Empty(t, *cfg.Comment)
}

func TestLoadMessageConfigErrors(t *testing.T) {
	const dest = `dest = "0:3333333333333333333333333333333333333333333333333333333333333333"`

	tests := []struct {
		name    string
		content string
	}{
		{"malformed toml", `kind = `},
		{"unknown kind", `kind = "external_out"`},
		{"internal without dest", `kind = "internal"`},
		{"bad address", `dest = "0:zz"`},
		{"bad value", dest + "\nvalue = \"lots\""},
		{"bad import fee", "kind = \"external\"\nimport_fee = \"1.0000000001\""},
		{"bad code", dest + "\ncode = \"80_\""},
		{"data without code", dest + "\ndata = \"00\""},
		{"oversized code", dest + "\ncode = \"" + strings.Repeat("F", 257) + "\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadMessageConfig(writeConfig(t, tt.content))
			require.Error(t, err)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := loadMessageConfig(filepath.Join(t.TempDir(), "nope.toml"))
		require.Error(t, err)
	})
}

func TestMessageConfigBuild(t *testing.T) {
	t.Run("internal with init and comment", func(t *testing.T) {
		cfg, err := loadMessageConfig("ex.message.toml")
		require.NoError(t, err)

		msg, err := cfg.build()
		require.NoError(t, err)

		parsed, err := tvmcell.ParseMessage(msg)
		require.NoError(t, err)
		require.NotNil(t, parsed.Internal)
		require.True(t, parsed.Internal.Dest.Equal(cfg.Dest))
		require.Equal(t, "0.05", parsed.Internal.Value.String())
		require.NotNil(t, parsed.Init)
		require.True(t, parsed.Init.Code.Equal(cfg.Code))
		require.True(t, parsed.Init.Data.Equal(cfg.Data))

		comment, err := tvmcell.NewTextComment("hello from cellctl")
		require.NoError(t, err)
		require.True(t, parsed.Body.Equal(comment))
	})

	t.Run("bare external", func(t *testing.T) {
		cfg, err := loadMessageConfig(writeConfig(t, `kind = "external"`))
		require.NoError(t, err)

		msg, err := cfg.build()
		require.NoError(t, err)
		require.Equal(t, "x{800}", msg.String())

		parsed, err := tvmcell.ParseMessage(msg)
		require.NoError(t, err)
		require.NotNil(t, parsed.ExternalIn)
		require.Nil(t, parsed.Init)
		require.Nil(t, parsed.Body)
	})
}
