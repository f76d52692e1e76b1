package instance

import "github.com/daybreak101/ambassador/pkg/env"

// ID names this process in logs. The hosting platform sets DYNO; local runs report "local".
func ID() string {
	return env.Get("DYNO", "local")
}
