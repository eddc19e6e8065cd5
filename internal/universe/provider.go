package universe

// Provider supplies the list of symbols to scan on each cycle.
type Provider interface {
	Symbols() ([]string, error)
	Name() string
}

// majors is the fallback list used when no other universe source is
// configured or reachable.
var majors = []string{
	"BTCUSDT", "ETHUSDT", "BNBUSDT", "SOLUSDT", "XRPUSDT",
	"DOGEUSDT", "ADAUSDT", "AVAXUSDT", "DOTUSDT", "MATICUSDT",
	"LINKUSDT", "UNIUSDT", "ATOMUSDT", "LTCUSDT", "ETCUSDT",
	"XLMUSDT", "NEARUSDT", "ALGOUSDT", "FILUSDT", "VETUSDT",
}

// StaticProvider serves a fixed symbol list.
type StaticProvider struct {
	List []string
}

// NewStaticProvider returns a provider over the given symbols, defaulting to
// the major pairs when none are given.
func NewStaticProvider(symbols []string) *StaticProvider {
	if len(symbols) == 0 {
		symbols = majors
	}
	return &StaticProvider{List: symbols}
}

func (p *StaticProvider) Name() string { return "static" }

func (p *StaticProvider) Symbols() ([]string, error) {
	out := make([]string, len(p.List))
	copy(out, p.List)
	return out, nil
}
