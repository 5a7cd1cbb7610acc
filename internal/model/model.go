package model

import (
	"github.com/pyrosim/sprinkler/internal/model/entities"
	"github.com/pyrosim/sprinkler/internal/model/messages"
)

// Aliases exposing the common types to the services.

type (
	HeatReading              = messages.HeatReading
	StateChangeEvent         = messages.StateChangeEvent
	SuppressionDecisionEvent = messages.SuppressionDecisionEvent
	SprayResultEvent         = messages.SprayResultEvent
	Zone                     = entities.Zone
	Head                     = entities.Head
	HeadState                = entities.HeadState
	SuppressionPolicy        = entities.SuppressionPolicy
	HazardClass              = entities.HazardClass
	FireStage                = entities.FireStage
)

const (
	HeadStandby  = entities.HeadStandby
	HeadSpraying = entities.HeadSpraying
)
