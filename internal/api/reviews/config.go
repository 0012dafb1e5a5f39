package reviews

type Config struct {
	DefaultPageSize int
	MaxPageSize     int
	MaxBodyLength   int
}

func LoadConfig() *Config {
	return &Config{
		DefaultPageSize: 20,
		MaxPageSize:     100,
		MaxBodyLength:   2000,
	}
}
