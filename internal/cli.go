/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"fmt"

	"github.com/mikeb26/franchise-cover/config"
	"github.com/spf13/cobra"
)

// LoadConfig reads cfgFile (or the default search path) and environment
// overrides, then applies every flag in bindings that the user set on cmd.
// bindings maps config keys to flag names.
func LoadConfig(cmd *cobra.Command, cfgFile string,
	bindings map[string]string) (*config.Config, error) {

	v, err := config.NewViper(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	for key, name := range bindings {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("binding --%v: %w", name, err)
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
