package layout

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load reads a layout description from a yaml/toml/json file.
func Load(path string) (*Layout, error) {
	vip := viper.New()
	vip.SetConfigFile(path)
	if err := vip.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read layout file: %w", err)
	}

	layout := new(Layout)
	if err := vip.Unmarshal(layout); err != nil {
		return nil, fmt.Errorf("failed to parse layout file: %w", err)
	}
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return layout, nil
}
