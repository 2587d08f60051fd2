package http

import (
	"github.com/medimate-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/medimate-api/internal/infrastructure/jwt"
	"github.com/medimate-api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	MedicationRepo   *dynamo.MedicationRepo
	DoseLogRepo      *dynamo.DoseLogRepo
	Ledger           *dynamo.Ledger
	PreferenceRepo   *dynamo.PreferenceRepo
	PushTokenRepo    *dynamo.PushTokenRepo
	NotificationRepo *dynamo.NotificationRepo
	Registrar        sns.Registrar
	Publisher        sns.Publisher
	JWTProvider      *jwtinfra.Provider
}
