// package codecs describes the audio formats the catalog recognizes.
//
// The registry maps codec names to file extensions and encoder/decoder
// command templates. The tree scanner uses the registry as its
// format-detection collaborator: a file is a recognized audio file when its
// extension belongs to a registered codec.
package codecs

import (
	"path/filepath"
	"sort"
	"strings"
)

// Codec describes one registered audio format.
type Codec struct {
	Name        string
	Description string
	Extensions  []string
	Encoders    []string
	Decoders    []string
}

// Registry holds the known codecs keyed by name.
type Registry struct {
	codecs map[string]Codec
}

// Classifier recognizes audio files by path.
type Classifier interface {
	// Recognize reports whether the path looks like a recognized audio file.
	Recognize(path string) bool
	// Match returns the codec for the path, or nil when unrecognized.
	Match(path string) *Codec
}

// Default codec registrations. Registering a codec later does not rewrite
// these entries.
var defaultCodecs = []Codec{
	{
		Name:        "mp3",
		Description: "MPEG-1 or MPEG-2 Audio Layer III",
		Extensions:  []string{"mp3"},
		Encoders:    []string{"lame --quiet -b 320 --vbr-new -ms --replaygain-accurate FILE OUTFILE"},
		Decoders:    []string{"lame --quiet --decode FILE OUTFILE"},
	},
	{
		Name:        "aac",
		Description: "Advanced Audio Coding",
		Extensions:  []string{"aac", "m4a", "mp4"},
		Encoders: []string{
			"neroAacEnc -if FILE -of OUTFILE -br 256000 -2pass",
			"afconvert -b 256000 -v -f m4af -d aac FILE OUTFILE",
		},
		Decoders: []string{
			"neroAacDec -if OUTFILE -of FILE",
			"faad -q -o OUTFILE FILE -b1",
		},
	},
	{
		Name:        "vorbis",
		Description: "Ogg Vorbis",
		Extensions:  []string{"vorbis", "ogg"},
		Encoders:    []string{"oggenc --quiet -q 7 -o OUTFILE FILE"},
		Decoders:    []string{"oggdec --quiet -o OUTFILE FILE"},
	},
	{
		Name:        "flac",
		Description: "Free Lossless Audio Codec",
		Extensions:  []string{"flac"},
		Encoders:    []string{"flac -f --silent --verify --replay-gain -o OUTFILE FILE"},
		Decoders:    []string{"flac -f --silent --decode -o OUTFILE FILE"},
	},
	{
		Name:        "wavpack",
		Description: "WavPack Lossless Audio Codec",
		Extensions:  []string{"wv", "wavpack"},
		Encoders:    []string{"wavpack -yhx FILE -o OUTFILE"},
		Decoders:    []string{"wvunpack -yq FILE -o OUTFILE"},
	},
	{
		Name:        "caf",
		Description: "CoreAudio Format audio",
		Extensions:  []string{"caf"},
		Encoders:    []string{"afconvert -f caff -d LEI16 FILE OUTFILE"},
		Decoders:    []string{"afconvert -f WAVE -d LEI16 FILE OUTFILE"},
	},
	{
		Name:        "aif",
		Description: "AIFF audio",
		Extensions:  []string{"aif", "aiff"},
		Encoders:    []string{"afconvert -f AIFF -d BEI16 FILE OUTFILE"},
		Decoders:    []string{"afconvert -f WAVE -d LEI16 FILE OUTFILE"},
	},
	{
		Name:        "wav",
		Description: "RIFF Wave Audio",
		Extensions:  []string{"wav"},
	},
}

// NewRegistry creates a registry populated with the default codecs.
func NewRegistry() *Registry {
	r := &Registry{codecs: make(map[string]Codec, len(defaultCodecs))}
	for _, c := range defaultCodecs {
		r.codecs[c.Name] = c
	}
	return r
}

// Register adds or replaces a codec in the registry.
func (r *Registry) Register(c Codec) {
	r.codecs[c.Name] = c
}

// Get returns the codec with the given name, or nil.
func (r *Registry) Get(name string) *Codec {
	if c, ok := r.codecs[name]; ok {
		return &c
	}
	return nil
}

// Names returns the registered codec names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.codecs))
	for name := range r.codecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Match returns the codec matching the file extension of path, or nil.
func (r *Registry) Match(path string) *Codec {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return nil
	}
	for _, name := range r.Names() {
		c := r.codecs[name]
		for _, candidate := range c.Extensions {
			if candidate == ext {
				return &c
			}
		}
	}
	return nil
}

// Recognize reports whether path has an extension belonging to a registered codec.
func (r *Registry) Recognize(path string) bool {
	return r.Match(path) != nil
}
