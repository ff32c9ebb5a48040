package tile

import "errors"

var errPartialTile = errors.New("tile: data is not a whole number of tiles")

func hashTile(words []uint32) uint64 {
	h := uint64(17)
	for _, w := range words {
		h = h*31 + uint64(w)
	}
	return h
}

func equal(a, b []uint32) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Dedupe removes repeated tiles from packed tile data. It returns the unique
// tiles in the order they first appear and a map with one entry per input
// tile giving the index of its unique copy.
func Dedupe(words []uint32, bpp int) ([]uint32, []int, error) {
	n := Words(bpp)
	if n == 0 || len(words)%n != 0 {
		return nil, nil, errPartialTile
	}

	var (
		tiles   []uint32
		tileMap = make([]int, 0, len(words)/n)
		buckets = make(map[uint64][]int)
	)

	for i := 0; i < len(words); i += n {
		t := words[i : i+n]
		h := hashTile(t)

		// Equal hashes aren't proof, compare the whole tile
		found := -1
		for _, j := range buckets[h] {
			if equal(t, tiles[j*n:(j+1)*n]) {
				found = j
				break
			}
		}

		if found < 0 {
			found = len(tiles) / n
			tiles = append(tiles, t...)
			buckets[h] = append(buckets[h], found)
		}

		tileMap = append(tileMap, found)
	}

	return tiles, tileMap, nil
}
