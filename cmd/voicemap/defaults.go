package main

import (
	"fmt"

	"github.com/RyanBlaney/sonido-voz/voicemap/config"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// setDefaults registers every analysis key so that VOICEMAP_* variables
// resolve through AutomaticEnv during Unmarshal
func setDefaults(v *viper.Viper, cfg *config.AnalysisConfig) {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		panic(fmt.Sprintf("failed to encode default config: %v", err))
	}
	var tree map[string]any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		panic(fmt.Sprintf("failed to decode default config: %v", err))
	}
	setTree(v, "", tree)
}

func setTree(v *viper.Viper, prefix string, tree map[string]any) {
	for key, value := range tree {
		if prefix != "" {
			key = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			setTree(v, key, nested)
			continue
		}
		v.SetDefault(key, value)
	}
}
