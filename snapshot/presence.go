package snapshot

import (
	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/hupe1980/pvec"
)

// Indices returns the populated indices of v as a roaring bitmap.
func Indices[T any](v *pvec.Vector[T]) *roaring64.Bitmap {
	bm := roaring64.New()
	for i := range v.All() {
		bm.Add(uint64(i))
	}
	bm.RunOptimize()
	return bm
}

func encodePresence(bm *roaring64.Bitmap) ([]byte, error) {
	return bm.ToBytes()
}

func decodePresence(data []byte) (*roaring64.Bitmap, error) {
	bm := roaring64.New()
	if err := bm.UnmarshalBinary(data); err != nil {
		return nil, corrupt("presence bitmap: %v", err)
	}
	return bm, nil
}
