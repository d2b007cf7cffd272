package domain

import "time"

// JourneyStage orders the training journey. Stages only ever advance;
// the ordering makes the ratchet invariant structural rather than
// convention-based.
type JourneyStage int

const (
	StageInvited JourneyStage = iota
	StageVisionSeen
	StageValuesDone
	StageRavingFans
	StageSkillsDone
	StageHygieneDone
	StageCertified
)

// String returns the step label stored in current_step.
func (s JourneyStage) String() string {
	switch s {
	case StageInvited:
		return "invited"
	case StageVisionSeen:
		return "vision_seen"
	case StageValuesDone:
		return "values_done"
	case StageRavingFans:
		return "raving_fans_done"
	case StageSkillsDone:
		return "skills_done"
	case StageHygieneDone:
		return "hygiene_done"
	case StageCertified:
		return "certified"
	}
	return "unknown"
}

// TrainingJourneyProgress holds one staff member's journey state.
// The boolean fields are ratchets: they move false to true and are never
// unset except by an explicit admin reset.
type TrainingJourneyProgress struct {
	ID                  string
	StaffEmail          string
	InvitationAccepted  bool
	VisionWatched       bool
	ValuesCompleted     bool
	RavingFansCompleted bool
	SkillsCompleted     bool
	HygieneCompleted    bool
	Certified           bool
	CertificateIssuedAt *time.Time
	CurrentStep         string
	LastUpdated         time.Time
}

// Stage derives the furthest stage reached from the ratchet booleans.
func (p *TrainingJourneyProgress) Stage() JourneyStage {
	switch {
	case p.Certified:
		return StageCertified
	case p.HygieneCompleted:
		return StageHygieneDone
	case p.SkillsCompleted:
		return StageSkillsDone
	case p.RavingFansCompleted:
		return StageRavingFans
	case p.ValuesCompleted:
		return StageValuesDone
	case p.VisionWatched:
		return StageVisionSeen
	}
	return StageInvited
}

// AcknowledgementKind classifies staff acknowledgement records.
type AcknowledgementKind string

const (
	AckKindCulture AcknowledgementKind = "culture"
	AckKindSOP     AcknowledgementKind = "sop"
)

// Acknowledgement records a staff member acknowledging a culture or SOP
// document. SOP acknowledgements feed the skills-completed gate.
type Acknowledgement struct {
	ID             string
	StaffEmail     string
	Kind           AcknowledgementKind
	Reference      string
	AcknowledgedAt time.Time
}
