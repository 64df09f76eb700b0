package cache

// ResultKeyOpts captures everything besides the input file that affects a
// pipeline result.
type ResultKeyOpts struct {
	ParamsHash string
}

// ArtifactKeyOpts captures the render options that affect an artifact.
type ArtifactKeyOpts struct {
	Format string
	Scale  float64
	Labels bool
}

// Keyer generates cache keys for the pipeline's cacheable stages.
type Keyer interface {
	// ResultKey keys a full pipeline result by the input content hash and
	// the parameter hash.
	ResultKey(inputHash string, opts ResultKeyOpts) string

	// ArtifactKey keys a rendered artifact by the result it was built from
	// and the render options.
	ArtifactKey(resultHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key components with SHA-256 under a stage prefix.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ResultKey generates a key for full pipeline results.
func (k *DefaultKeyer) ResultKey(inputHash string, opts ResultKeyOpts) string {
	return hashKey("result", inputHash, opts)
}

// ArtifactKey generates a key for rendered artifacts.
func (k *DefaultKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", resultHash, opts)
}
