package models

import (
	"fmt"
	"regexp"
	"strings"
)

// Asset is a crypto asset symbol such as BTC.
type Asset string

const (
	AssetBTC Asset = "BTC"
	AssetETH Asset = "ETH"

	DefaultAsset = AssetBTC
)

var (
	assetPattern = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)

	displayNames = map[Asset]string{
		AssetBTC: "Bitcoin",
		AssetETH: "Ethereum",
	}
)

// ErrInvalidAsset is wrapped by every asset validation failure.
var ErrInvalidAsset = fmt.Errorf("invalid asset")

// ParseAsset normalizes s and checks it is a well-formed symbol.
func ParseAsset(s string) (Asset, error) {
	a := Asset(strings.ToUpper(strings.TrimSpace(s)))
	if !assetPattern.MatchString(string(a)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAsset, s)
	}
	return a, nil
}

func (a Asset) String() string { return string(a) }

// DisplayName returns the human name, falling back to the symbol.
func (a Asset) DisplayName() string {
	if n, ok := displayNames[a]; ok {
		return n
	}
	return string(a)
}

// AssetInfo is one selectable option.
type AssetInfo struct {
	Symbol Asset  `json:"symbol"`
	Name   string `json:"name"`
}

// AssetSet is the ordered list of assets the dashboard may select.
type AssetSet struct {
	order []Asset
	index map[Asset]struct{}
}

// NewAssetSet validates symbols and keeps their order; duplicates are dropped.
func NewAssetSet(symbols []string) (*AssetSet, error) {
	s := &AssetSet{index: make(map[Asset]struct{}, len(symbols))}
	for _, sym := range symbols {
		a, err := ParseAsset(sym)
		if err != nil {
			return nil, err
		}
		if _, dup := s.index[a]; dup {
			continue
		}
		s.index[a] = struct{}{}
		s.order = append(s.order, a)
	}
	if len(s.order) == 0 {
		return nil, fmt.Errorf("%w: empty asset list", ErrInvalidAsset)
	}
	return s, nil
}

// DefaultAssetSet is {BTC, ETH}.
func DefaultAssetSet() *AssetSet {
	s, _ := NewAssetSet([]string{string(AssetBTC), string(AssetETH)})
	return s
}

// Resolve parses s and checks membership.
func (s *AssetSet) Resolve(sym string) (Asset, error) {
	a, err := ParseAsset(sym)
	if err != nil {
		return "", err
	}
	if _, ok := s.index[a]; !ok {
		return "", fmt.Errorf("%w: %s is not one of %s", ErrInvalidAsset, a, strings.Join(s.Symbols(), ", "))
	}
	return a, nil
}

func (s *AssetSet) Contains(a Asset) bool {
	_, ok := s.index[a]
	return ok
}

func (s *AssetSet) Symbols() []string {
	out := make([]string, len(s.order))
	for i, a := range s.order {
		out[i] = string(a)
	}
	return out
}

func (s *AssetSet) Infos() []AssetInfo {
	out := make([]AssetInfo, len(s.order))
	for i, a := range s.order {
		out[i] = AssetInfo{Symbol: a, Name: a.DisplayName()}
	}
	return out
}
