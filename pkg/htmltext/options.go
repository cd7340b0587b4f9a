package htmltext

// Options holds tokenizer configuration values.
// The zero value means no overrides.
type Options struct {
	trackPositions      bool
	maxEntityNameLength int
	maxTokenSize        int

	trackPositionsSet      bool
	maxEntityNameLengthSet bool
	maxTokenSizeSet        bool
}

type tokenizerOptions struct {
	maxEntityNameLength int
	maxTokenSize        int
	trackPositions      bool
}

// JoinOptions combines multiple option sets into one in declaration order.
// Later options override earlier ones when set.
func JoinOptions(srcs ...Options) Options {
	var merged Options
	for _, src := range srcs {
		merged.merge(src)
	}
	return merged
}

func (opts *Options) merge(src Options) {
	if src.trackPositionsSet {
		opts.trackPositions = src.trackPositions
		opts.trackPositionsSet = true
	}
	if src.maxEntityNameLengthSet {
		opts.maxEntityNameLength = src.maxEntityNameLength
		opts.maxEntityNameLengthSet = true
	}
	if src.maxTokenSizeSet {
		opts.maxTokenSize = src.maxTokenSize
		opts.maxTokenSizeSet = true
	}
}

// TrackPositions controls whether tokens carry their start position.
// Positions are tracked by default.
func TrackPositions(value bool) Options {
	return Options{trackPositions: value, trackPositionsSet: true}
}

// MaxEntityNameLength limits how many characters a named reference may have
// before it is treated as literal text.
func MaxEntityNameLength(value int) Options {
	return Options{maxEntityNameLength: value, maxEntityNameLengthSet: true}
}

// MaxTokenSize splits character runs into tokens of at most value bytes.
// Zero means unlimited.
func MaxTokenSize(value int) Options {
	return Options{maxTokenSize: value, maxTokenSizeSet: true}
}

func resolveOptions(opts Options) tokenizerOptions {
	resolved := tokenizerOptions{
		trackPositions:      true,
		maxEntityNameLength: defaultMaxEntityNameLength,
	}
	if opts.trackPositionsSet {
		resolved.trackPositions = opts.trackPositions
	}
	if opts.maxEntityNameLengthSet && opts.maxEntityNameLength > 0 {
		resolved.maxEntityNameLength = opts.maxEntityNameLength
	}
	if opts.maxTokenSizeSet && opts.maxTokenSize > 0 {
		resolved.maxTokenSize = opts.maxTokenSize
	}
	return resolved
}
