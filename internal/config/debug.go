package config

import "os"

func IsDebug() bool {
	return os.Getenv("CHIMERA_DEBUG") == "1"
}
