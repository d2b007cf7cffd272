package domain

// OperatingMode is the coarse UI context gating which pages are reachable
// independent of role. It is session state, never persisted to the database.
type OperatingMode string

const (
	ModeOperate OperatingMode = "operate"
	ModeManage  OperatingMode = "manage"
	ModeTrain   OperatingMode = "train"
)

// ValidMode reports whether the mode is one of the known values.
func ValidMode(m OperatingMode) bool {
	switch m {
	case ModeOperate, ModeManage, ModeTrain:
		return true
	}
	return false
}
