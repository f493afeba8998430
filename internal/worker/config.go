package worker

const defaultNumWorkers = 4

type Config struct {
	NumWorkers int `mapstructure:"num_workers"`
}
