// Package app composes the bank products service.
//
// # Package Structure
//
//	internal/app/
//	├── application.go      # Application struct and wiring
//	├── domain/bankproduct  # BankProduct model and request payload
//	├── storage/            # Storage gateway interface and backends
//	│   ├── interfaces.go   # BankProductStore, ErrUnavailable, ErrNotFound
//	│   ├── memory/         # In-memory backend, default for tests
//	│   ├── postgres/       # PostgreSQL backend (sqlx + lib/pq)
//	│   ├── redis/          # Redis backend (go-redis)
//	│   └── storagetest/    # Conformance suite shared by every backend
//	├── services/           # Resource managers
//	├── httpapi/            # HTTP handlers and routing
//	├── runtime/            # Config driven server lifecycle
//	└── metrics/            # Prometheus collectors
//
// # Dependency Direction
//
//	cmd/bankproducts/
//	      │
//	      ▼
//	internal/app/runtime
//	      │
//	      ├──► internal/app/httpapi ──► internal/app/services/bankproducts
//	      │                                        │
//	      │                                        ▼
//	      └──────────────────────────────► internal/app/storage/...
//
// Absence is never an error at any layer: gateways and the service report
// it with a bool, and the HTTP layer turns it into an empty 404.
package app
