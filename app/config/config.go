package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type SuggestCfg struct {
	JWWeight  float64 `yaml:"jw_weight" json:"jw_weight"`
	LevWeight float64 `yaml:"lev_weight" json:"lev_weight"`
	MinScore  float64 `yaml:"min_score" json:"min_score"`
	TopK      int     `yaml:"top_k" json:"top_k"`
}

type ResolverCfg struct {
	Romanize bool       `yaml:"romanize" json:"romanize"`
	Suggest  SuggestCfg `yaml:"suggest" json:"suggest"`
}

var C = Defaults()

func Defaults() ResolverCfg {
	return ResolverCfg{
		Romanize: true,
		Suggest: SuggestCfg{
			JWWeight:  0.7,
			LevWeight: 0.3,
			MinScore:  0.75,
			TopK:      5,
		},
	}
}

func Load(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	C = Defaults()
	if err := yaml.Unmarshal(b, &C); err != nil {
		return err
	}
	// ENV overrides
	switch os.Getenv("RESOLVER_ROMANIZE") {
	case "0":
		C.Romanize = false
	case "1":
		C.Romanize = true
	}
	return nil
}

func RequestTimeout() time.Duration { return 1500 * time.Millisecond }
