package experiences

type Config struct {
	DefaultPageSize int
	MaxPageSize     int
	SearchSize      int
}

func LoadConfig() *Config {
	return &Config{
		DefaultPageSize: 20,
		MaxPageSize:     100,
		SearchSize:      25,
	}
}
