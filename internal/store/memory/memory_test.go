package memory_test

import (
	"testing"

	"github.com/manamitra/companion/backend/internal/store"
	"github.com/manamitra/companion/backend/internal/store/memory"
	"github.com/manamitra/companion/backend/internal/store/storetest"
)

func TestMemoryStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return memory.New()
	})
}
