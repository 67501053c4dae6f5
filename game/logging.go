package game

import (
	"fmt"
	"io"

	"github.com/pthm-cable/warpath/components"
)

// logWriter is the destination for log output.
var logWriter io.Writer

// SetLogWriter sets the log output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted log message.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}

// LogState logs a summary of the current session state.
func (s *Session) LogState() {
	var alive, wrecks, projectiles, mines, effects int

	s.store.ForEach(func(h components.Handle, class components.Class, tr *components.Transform) {
		switch class {
		case components.ClassVehicle:
			if v := s.store.Vehicle(h); v != nil && v.Alive() {
				alive++
			} else {
				wrecks++
			}
		case components.ClassProjectile:
			projectiles++
		case components.ClassPickup:
			mines++
		case components.ClassEffect:
			effects++
		}
	})

	Logf("=== Tick %d ===", s.tick)
	Logf("Vehicles: %d alive, %d wrecked", alive, wrecks)
	Logf("Projectiles: %d, Mines: %d, Effects: %d", projectiles, mines, effects)
	Logf("Entities: %d/%d", s.store.Len(), s.store.Cap())

	s.store.ForEachVehicle(func(h components.Handle, tr *components.Transform, v *components.VehicleState) {
		role := "player"
		if v.Bot {
			role = "bot"
		}
		status := fmt.Sprintf("HP %.0f, %s", v.HP, v.CurWeapon)
		if v.Dead {
			status = fmt.Sprintf("wrecked, respawn in %d", v.RespawnTicks)
		}
		Logf("  %s %d @ (%.0f,%.0f): %s", role, v.Player, tr.Pos.X, tr.Pos.Y, status)
	})
	Logf("")
}
