package cache

// Keyer generates cache keys for the pipeline stages. Keys chain: the
// document hash feeds the layout key, the layout key feeds the artifact key,
// so a change anywhere upstream invalidates everything below it.
type Keyer interface {
	// HTTPKey generates a key for a cached HTTP response, used when
	// documents are fetched from URLs.
	HTTPKey(namespace, key string) string

	// DocumentKey generates a key for a parsed document from its raw
	// bytes.
	DocumentKey(raw []byte) string

	// LayoutKey generates a key for laid-out geometry.
	LayoutKey(docHash string, opts LayoutKeyOpts) string

	// ArtifactKey generates a key for an encoded artifact.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the inputs that change a layout without changing the
// document: the theme and the canvas geometry.
type LayoutKeyOpts struct {
	Theme    string  `json:"theme"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	DPI      float64 `json:"dpi"`
	Margin   float64 `json:"margin"`
	FontSize float64 `json:"font_size"`
}

// ArtifactKeyOpts are the inputs that change an artifact without changing
// the layout: the output format and its encoder settings.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Scale  int    `json:"scale"`
	Embed  bool   `json:"embed"`
}

// DefaultKeyer generates hashed keys with stage prefixes.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// HTTPKey generates a key for HTTP response caching.
// Format: http:namespace:key
func (k *DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// DocumentKey hashes the raw document bytes.
// Format: doc:hash
func (k *DefaultKeyer) DocumentKey(raw []byte) string {
	return "doc:" + Hash(raw)
}

// LayoutKey hashes the document hash together with the layout options.
// Format: layout:hash
func (k *DefaultKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", docHash, opts)
}

// ArtifactKey hashes the layout hash together with the artifact options.
// Format: artifact:hash
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
