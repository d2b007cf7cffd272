package gating

import (
	"time"

	"github.com/spec-kit/compliance-service/internal/domain"
)

// SOPAcknowledgementsForSkills is how many distinct SOP acknowledgements
// complete the skills module.
const SOPAcknowledgementsForSkills = 3

// JourneySignals are the external facts the journey sync reacts to.
type JourneySignals struct {
	CultureAcknowledged     bool
	HygieneCompleted        bool
	SOPAcknowledgementCount int
}

// JourneyUpdates is the partial update a sync produces. Only fields whose
// Set flag is true are written; every write is a one-way set-true, so
// concurrent syncs commute and repeats are harmless.
type JourneyUpdates struct {
	ValuesCompleted     bool
	HygieneCompleted    bool
	SkillsCompleted     bool
	Certified           bool
	CertificateIssuedAt *time.Time
	CurrentStep         string
}

// SyncJourney applies the ratchet rules to a progress record given fresh
// signals. It returns the updates to persist and whether any rule fired;
// callers must skip the store write when nothing fired. Certification is
// evaluated against the post-update values and only ever flips false to
// true.
func SyncJourney(progress domain.TrainingJourneyProgress, signals JourneySignals, now time.Time) (JourneyUpdates, bool) {
	var updates JourneyUpdates
	fired := false

	values := progress.ValuesCompleted
	if signals.CultureAcknowledged && !values {
		values = true
		updates.ValuesCompleted = true
		fired = true
	}

	hygiene := progress.HygieneCompleted
	if signals.HygieneCompleted && !hygiene {
		hygiene = true
		updates.HygieneCompleted = true
		fired = true
	}

	skills := progress.SkillsCompleted
	if signals.SOPAcknowledgementCount >= SOPAcknowledgementsForSkills && !skills {
		skills = true
		updates.SkillsCompleted = true
		fired = true
	}

	if !progress.Certified &&
		progress.InvitationAccepted &&
		progress.VisionWatched &&
		values &&
		progress.RavingFansCompleted &&
		skills &&
		hygiene {
		issued := now
		updates.Certified = true
		updates.CertificateIssuedAt = &issued
		fired = true
	}

	if fired {
		after := progress
		if updates.ValuesCompleted {
			after.ValuesCompleted = true
		}
		if updates.HygieneCompleted {
			after.HygieneCompleted = true
		}
		if updates.SkillsCompleted {
			after.SkillsCompleted = true
		}
		if updates.Certified {
			after.Certified = true
		}
		updates.CurrentStep = after.Stage().String()
	}

	return updates, fired
}

// TrainingModule names the journey modules exposed to the UI.
type TrainingModule string

const (
	ModuleInvitation        TrainingModule = "Invitation"
	ModuleVision            TrainingModule = "Vision"
	ModuleValues            TrainingModule = "Values"
	ModuleRavingFans        TrainingModule = "RavingFans"
	ModuleSkills            TrainingModule = "Skills"
	ModuleHygiene           TrainingModule = "Hygiene"
	ModuleLeadershipPathway TrainingModule = "LeadershipPathway"
)

// ModuleUnlocks reports which modules the staff member may open.
// Invitation is always unlocked; every other module requires the accepted
// invitation; LeadershipPathway additionally requires certification.
func ModuleUnlocks(progress domain.TrainingJourneyProgress) map[TrainingModule]bool {
	base := progress.InvitationAccepted
	return map[TrainingModule]bool{
		ModuleInvitation:        true,
		ModuleVision:            base,
		ModuleValues:            base,
		ModuleRavingFans:        base,
		ModuleSkills:            base,
		ModuleHygiene:           base,
		ModuleLeadershipPathway: base && progress.Certified,
	}
}
