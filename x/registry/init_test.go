package registry

import (
	"testing"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/bazaartest"
	"github.com/iov-one/bazaar/bazaartest/assert"
	"github.com/iov-one/bazaar/store"
)

func TestGenesis(t *testing.T) {
	opts := bazaar.Options{
		"registry": []byte(`[
			{"owner": "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0", "metadata_uri": "ipfs://genesis-1"},
			{"owner": "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0", "metadata_uri": "ipfs://genesis-2"}
		]`),
	}
	db := store.MemStore()
	assert.Nil(t, Genesis{}.FromGenesis(opts, db))

	ctrl := NewController(NewBucket())
	count, err := ctrl.Count(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), count)

	a, err := ctrl.Asset(db, bazaartest.SequenceID(2))
	assert.Nil(t, err)
	assert.Equal(t, "ipfs://genesis-2", a.MetadataURI)
	assert.Equal(t, bazaartest.ParseAddress(t, "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0"), a.Owner)
}

func TestGenesisRejectsInvalidAssets(t *testing.T) {
	opts := bazaar.Options{
		"registry": []byte(`[{"owner": "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0", "metadata_uri": ""}]`),
	}
	err := Genesis{}.FromGenesis(opts, store.MemStore())
	assert.IsErr(t, ErrInvalidMetadata, err)
}
