package domain

import "hash/fnv"

// DefaultImagePools are the static fallback images served with the web client.
var DefaultImagePools = map[Category][]string{
	CategoryLodging:   {"/images/hotel.jpg", "/images/hotel-2.jpg", "/images/hotel-3.jpg"},
	CategoryTransport: {"/images/flight.jpg", "/images/flight-2.jpg"},
	CategoryActivity:  {"/images/activity.jpg", "/images/activity-2.jpg", "/images/activity-3.jpg"},
	CategoryDining:    {"/images/dining.jpg", "/images/dining-2.jpg"},
}

const GenericImage = "/images/travel.jpg"

// PoolImage picks a stable entry for name from pools[c], or GenericImage when
// the category has no pool. A nil pools uses DefaultImagePools.
func PoolImage(pools map[Category][]string, name string, c Category) string {
	if pools == nil {
		pools = DefaultImagePools
	}
	pool := pools[c]
	if len(pool) == 0 {
		return GenericImage
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return pool[int(h.Sum32()%uint32(len(pool)))]
}
