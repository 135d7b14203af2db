package tor

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Torrc is the generated contents of a tor daemon's configuration file. It
// is a distinct type (not a bare string) so it can't be confused with
// OBConfig or ConfigYaml at call boundaries.
type Torrc string

// String returns the torrc text.
func (t Torrc) String() string { return string(t) }

// AnnotationTuple returns the (key, value) pair this content contributes to
// an owned child's annotations: tor.agabani.co.uk/torrc-hash =
// sha256:<hex>.
func (t Torrc) AnnotationTuple() (string, string) {
	return "tor.agabani.co.uk/torrc-hash", contentHash([]byte(t))
}

// TorrcBuilder assembles a Torrc line by line, mirroring the original
// controllers' ordered-append construction.
type TorrcBuilder struct {
	lines []string
}

// NewTorrcBuilder starts an empty torrc.
func NewTorrcBuilder() *TorrcBuilder {
	return &TorrcBuilder{}
}

// Line appends a raw line verbatim.
func (b *TorrcBuilder) Line(line string) *TorrcBuilder {
	b.lines = append(b.lines, line)
	return b
}

// HiddenServiceDir appends "HiddenServiceDir <path>".
func (b *TorrcBuilder) HiddenServiceDir(path string) *TorrcBuilder {
	return b.Line("HiddenServiceDir " + path)
}

// HiddenServiceOnionbalanceInstance appends the fixed
// "HiddenServiceOnionbalanceInstance 1" marker line.
func (b *TorrcBuilder) HiddenServiceOnionbalanceInstance() *TorrcBuilder {
	return b.Line("HiddenServiceOnionbalanceInstance 1")
}

// HiddenServicePort appends "HiddenServicePort <virtport> <target>".
func (b *TorrcBuilder) HiddenServicePort(virtport int32, target string) *TorrcBuilder {
	return b.Line(fmt.Sprintf("HiddenServicePort %d %s", virtport, target))
}

// SocksPort appends "SocksPort <addr>".
func (b *TorrcBuilder) SocksPort(addr string) *TorrcBuilder {
	return b.Line("SocksPort " + addr)
}

// ControlPort appends "ControlPort <addr>".
func (b *TorrcBuilder) ControlPort(addr string) *TorrcBuilder {
	return b.Line("ControlPort " + addr)
}

// HTTPTunnelPort appends "HTTPTunnelPort <addr>".
func (b *TorrcBuilder) HTTPTunnelPort(addr string) *TorrcBuilder {
	return b.Line("HTTPTunnelPort " + addr)
}

// Build joins the accumulated lines with "\n" into a Torrc.
func (b *TorrcBuilder) Build() Torrc {
	return Torrc(strings.Join(b.lines, "\n"))
}

func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return fmt.Sprintf("sha256:%x", sum)
}
