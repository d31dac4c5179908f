package memory_test

import (
	"testing"

	"github.com/algomation/marionette/pkg/adapters/memory"
	"github.com/algomation/marionette/pkg/ports/tests"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	tests.RunFrameStoreContract(t, store)
}
