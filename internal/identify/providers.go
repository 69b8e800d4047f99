package identify

import "github.com/jackzampolin/sheetindex/internal/providers"

// ProviderSource looks up providers by name.
type ProviderSource interface {
	GetDetector(name string) (providers.LabelDetector, error)
	GetReader(name string) (providers.RegionReader, error)
}

// UseProviders sets the detector and reader from src by name. An empty name
// leaves that role unset. Names src does not know are returned and the role
// stays unset, so pages fall back to their supplied hits and candidates.
func (c *Config) UseProviders(src ProviderSource, detector, reader string) (missing []string) {
	if detector != "" {
		if d, err := src.GetDetector(detector); err == nil {
			c.Detector = d
		} else {
			missing = append(missing, detector)
		}
	}
	if reader != "" {
		if r, err := src.GetReader(reader); err == nil {
			c.Reader = r
		} else if detector != reader || c.Detector != nil {
			missing = append(missing, reader)
		}
	}
	return missing
}
