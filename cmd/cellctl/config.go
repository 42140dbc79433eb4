package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/branched-services/go-tvmcell"
)

const (
	kindInternal = "internal"
	kindExternal = "external"
)

type fileMessage struct {
	Kind        string `toml:"kind"`
	Src         string `toml:"src"`
	Dest        string `toml:"dest"`
	Value       string `toml:"value"`
	IHRDisabled bool   `toml:"ihr_disabled"`
	Bounce      bool   `toml:"bounce"`
	Bounced     bool   `toml:"bounced"`
	IHRFee      string `toml:"ihr_fee"`
	FwdFee      string `toml:"fwd_fee"`
	ImportFee   string `toml:"import_fee"`
	CreatedLt   uint64 `toml:"created_lt"`
	CreatedAt   uint32 `toml:"created_at"`
	Code        string `toml:"code"`
	Data        string `toml:"data"`
	Comment     string `toml:"comment"`
}

// messageConfig is a message description with every field resolved.
type messageConfig struct {
	Kind        string
	Src         *tvmcell.Address
	Dest        *tvmcell.Address
	Value       tvmcell.Coins
	IHRDisabled bool
	Bounce      bool
	Bounced     bool
	IHRFee      tvmcell.Coins
	FwdFee      tvmcell.Coins
	ImportFee   tvmcell.Coins
	CreatedLt   uint64
	CreatedAt   uint32
	Code        *tvmcell.Cell
	Data        *tvmcell.Cell
	Comment     *string
}

func defaultMessageConfig() messageConfig {
	return messageConfig{
		Kind:        kindInternal,
		IHRDisabled: true,
	}
}

func loadMessageConfig(path string) (messageConfig, error) {
	cfg := defaultMessageConfig()

	var raw fileMessage
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return messageConfig{}, fmt.Errorf("load message config: %w", err)
	}

	if meta.IsDefined("kind") {
		cfg.Kind = strings.ToLower(strings.TrimSpace(raw.Kind))
	}
	if cfg.Kind != kindInternal && cfg.Kind != kindExternal {
		return messageConfig{}, fmt.Errorf("unknown message kind %q", raw.Kind)
	}

	if meta.IsDefined("src") {
		if cfg.Src, err = tvmcell.ParseRawAddress(raw.Src); err != nil {
			return messageConfig{}, fmt.Errorf("parse src: %w", err)
		}
	}
	if meta.IsDefined("dest") {
		if cfg.Dest, err = tvmcell.ParseRawAddress(raw.Dest); err != nil {
			return messageConfig{}, fmt.Errorf("parse dest: %w", err)
		}
	}
	if cfg.Kind == kindInternal && cfg.Dest == nil {
		return messageConfig{}, errors.New("internal message needs a dest address")
	}

	for _, c := range []struct {
		key string
		raw string
		out *tvmcell.Coins
	}{
		{"value", raw.Value, &cfg.Value},
		{"ihr_fee", raw.IHRFee, &cfg.IHRFee},
		{"fwd_fee", raw.FwdFee, &cfg.FwdFee},
		{"import_fee", raw.ImportFee, &cfg.ImportFee},
	} {
		if !meta.IsDefined(c.key) {
			continue
		}
		if *c.out, err = tvmcell.ParseCoins(c.raw); err != nil {
			return messageConfig{}, fmt.Errorf("parse %s: %w", c.key, err)
		}
	}

	if meta.IsDefined("ihr_disabled") {
		cfg.IHRDisabled = raw.IHRDisabled
	}
	if meta.IsDefined("bounce") {
		cfg.Bounce = raw.Bounce
	}
	if meta.IsDefined("bounced") {
		cfg.Bounced = raw.Bounced
	}
	if meta.IsDefined("created_lt") {
		cfg.CreatedLt = raw.CreatedLt
	}
	if meta.IsDefined("created_at") {
		cfg.CreatedAt = raw.CreatedAt
	}

	if meta.IsDefined("code") {
		if cfg.Code, err = cellFromHex(raw.Code); err != nil {
			return messageConfig{}, fmt.Errorf("parse code: %w", err)
		}
	}
	if meta.IsDefined("data") {
		if cfg.Code == nil {
			return messageConfig{}, errors.New("data requires code")
		}
		if cfg.Data, err = cellFromHex(raw.Data); err != nil {
			return messageConfig{}, fmt.Errorf("parse data: %w", err)
		}
	}

	if meta.IsDefined("comment") {
		comment := raw.Comment
		cfg.Comment = &comment
	}

	return cfg, nil
}

// cellFromHex builds a childless cell from Fift hex.
func cellFromHex(s string) (*tvmcell.Cell, error) {
	bits, err := tvmcell.HexToBits(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	if len(bits) > tvmcell.MaxCellBits {
		return nil, fmt.Errorf("%d bits do not fit in a cell", len(bits))
	}
	return tvmcell.NewCell(bits, nil, false), nil
}

// build composes the message cell the config describes.
func (cfg messageConfig) build() (*tvmcell.Cell, error) {
	var (
		header *tvmcell.Cell
		err    error
	)
	switch cfg.Kind {
	case kindInternal:
		header, err = tvmcell.NewInternalMessageHeader(cfg.Src, cfg.Dest, cfg.Value,
			tvmcell.WithIHRDisabled(cfg.IHRDisabled),
			tvmcell.WithBounce(cfg.Bounce),
			tvmcell.WithBounced(cfg.Bounced),
			tvmcell.WithIHRFee(cfg.IHRFee),
			tvmcell.WithFwdFee(cfg.FwdFee),
			tvmcell.WithCreatedLt(cfg.CreatedLt),
			tvmcell.WithCreatedAt(cfg.CreatedAt),
		)
	default:
		header, err = tvmcell.NewExternalInMessageHeader(cfg.Src, cfg.Dest, tvmcell.WithImportFee(cfg.ImportFee))
	}
	if err != nil {
		return nil, err
	}

	var init *tvmcell.Cell
	if cfg.Code != nil {
		if init, err = tvmcell.NewStateInit(cfg.Code, cfg.Data); err != nil {
			return nil, err
		}
	}

	var body *tvmcell.Cell
	if cfg.Comment != nil {
		if body, err = tvmcell.NewTextComment(*cfg.Comment); err != nil {
			return nil, err
		}
	}

	return tvmcell.NewMessage(header, init, body)
}
