package server

import (
	"Aviary/handler"
)

type Handlers struct {
	Bird   *handler.Bird
	Health *handler.Health
}
