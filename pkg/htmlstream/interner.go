package htmlstream

// InternStats reports name interning activity.
type InternStats struct {
	Count  int
	Hits   int
	Misses int
}

// nameInterner deduplicates names that are not known atoms. Once maxEntries
// names are stored, further misses are returned as fresh strings.
type nameInterner struct {
	entries    map[uint64][]string
	maxEntries int
	stats      InternStats
}

func (i *nameInterner) setMax(maxEntries int) {
	if maxEntries < 0 {
		maxEntries = 0
	}
	i.maxEntries = maxEntries
}

func (i *nameInterner) intern(name []byte) string {
	if len(name) == 0 {
		return ""
	}
	hash := hashBytes(name)
	for _, entry := range i.entries[hash] {
		if entry == string(name) {
			i.stats.Hits++
			return entry
		}
	}
	return i.store(hash, string(name))
}

func (i *nameInterner) internString(name string) string {
	if name == "" {
		return ""
	}
	hash := hashString(name)
	for _, entry := range i.entries[hash] {
		if entry == name {
			i.stats.Hits++
			return entry
		}
	}
	return i.store(hash, name)
}

func (i *nameInterner) store(hash uint64, name string) string {
	i.stats.Misses++
	if i.maxEntries > 0 && i.stats.Count >= i.maxEntries {
		return name
	}
	if i.entries == nil {
		i.entries = make(map[uint64][]string, 64)
	}
	i.entries[hash] = append(i.entries[hash], name)
	i.stats.Count++
	return name
}

const (
	fnvOffset = 14695981039346656037
	fnvPrime  = 1099511628211
)

func hashBytes(data []byte) uint64 {
	hash := uint64(fnvOffset)
	for _, b := range data {
		hash ^= uint64(b)
		hash *= fnvPrime
	}
	return hash
}

func hashString(data string) uint64 {
	hash := uint64(fnvOffset)
	for i := 0; i < len(data); i++ {
		hash ^= uint64(data[i])
		hash *= fnvPrime
	}
	return hash
}
