package app

import (
	"github.com/R3E-Network/bankproducts/internal/app/services/bankproducts"
	"github.com/R3E-Network/bankproducts/internal/app/storage"
	"github.com/R3E-Network/bankproducts/internal/app/storage/memory"
	"github.com/R3E-Network/bankproducts/internal/logging"
)

// Stores encapsulates persistence dependencies. Nil stores default to the
// in-memory implementation.
type Stores struct {
	BankProducts storage.BankProductStore
}

// Application ties domain services together.
type Application struct {
	log *logging.Logger

	BankProducts *bankproducts.Service
}

// New builds a fully initialised application with the provided stores.
func New(stores Stores, log *logging.Logger) *Application {
	if log == nil {
		log = logging.NewDefault("app")
	}
	if stores.BankProducts == nil {
		log.Warn("no bank product store configured; using in-memory storage")
		stores.BankProducts = memory.New()
	}

	return &Application{
		log:          log,
		BankProducts: bankproducts.New(stores.BankProducts, log),
	}
}
