package backend_test

import (
	"testing"

	"gotodo/backend"
	"gotodo/backend/storetest"
)

func TestMemoryStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) backend.Store {
		return backend.NewMemoryStore()
	})
}
