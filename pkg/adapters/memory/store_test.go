package memory_test

import (
	"testing"

	"github.com/aretw0/watercap/pkg/adapters/memory"
	"github.com/aretw0/watercap/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunSolutionStoreContract(t, store)
}
