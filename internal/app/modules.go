package app

import (
	"fmt"

	"github.com/mdsebald/LinkBlocks/blocks/counter"
	"github.com/mdsebald/LinkBlocks/blocks/gpiodo"
	"github.com/mdsebald/LinkBlocks/internal/blocktype"
)

// newTypeRegistry builds the compiled-in block-type registry (Component C),
// mirroring burstgridgo's coreModules list (internal/app/modules.go) of
// statically linked handlers rather than any plugin mechanism.
func newTypeRegistry() (*blocktype.Registry, error) {
	reg := blocktype.NewRegistry()
	if err := counter.Register(reg); err != nil {
		return nil, fmt.Errorf("app: register counter type: %w", err)
	}
	if err := gpiodo.Register(reg, gpiodo.NewSysfsDriver("")); err != nil {
		return nil, fmt.Errorf("app: register gpio_do type: %w", err)
	}
	return reg, nil
}
