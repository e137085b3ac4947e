package scripthost

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	lua "github.com/yuin/gopher-lua"
	"gopkg.in/yaml.v3"
)

// DefaultAlertCategory tags alerts raised for recoverable script errors.
const DefaultAlertCategory = "LUA_ERROR"

// DefaultChunkName is the name compiled chunks report in error messages.
const DefaultChunkName = "in"

// DefaultLibraries are opened in every interpreter unless Options says
// otherwise.
var DefaultLibraries = []string{"base", "math", "string"}

type library struct {
	module string
	open   lua.LGFunction
}

var libraries = map[string]library{
	"base":      {lua.BaseLibName, lua.OpenBase},
	"math":      {lua.MathLibName, lua.OpenMath},
	"string":    {lua.StringLibName, lua.OpenString},
	"table":     {lua.TabLibName, lua.OpenTable},
	"os":        {lua.OsLibName, lua.OpenOs},
	"io":        {lua.IoLibName, lua.OpenIo},
	"package":   {lua.LoadLibName, lua.OpenPackage},
	"coroutine": {lua.CoroutineLibName, lua.OpenCoroutine},
	"debug":     {lua.DebugLibName, lua.OpenDebug},
	"channel":   {lua.ChannelLibName, lua.OpenChannel},
}

// Options configure a Manager. The serializable fields may be loaded from
// YAML; the rest are wired by the host.
type Options struct {
	Libraries           []string `json:"libraries,omitempty" yaml:"libraries,omitempty"`
	AlertCategory       string   `json:"alert_category,omitempty" yaml:"alert_category,omitempty"`
	ChunkName           string   `json:"chunk_name,omitempty" yaml:"chunk_name,omitempty"`
	CallStackSize       int      `json:"call_stack_size,omitempty" yaml:"call_stack_size,omitempty"`
	RegistrySize        int      `json:"registry_size,omitempty" yaml:"registry_size,omitempty"`
	IncludeGoStackTrace bool     `json:"include_go_stack_trace,omitempty" yaml:"include_go_stack_trace,omitempty"`
	ScriptRoot          string   `json:"script_root,omitempty" yaml:"script_root,omitempty"`
	LogLevel            string   `json:"log_level,omitempty" yaml:"log_level,omitempty"`

	Registry   *Registry    `json:"-" yaml:"-"`
	Logger     *slog.Logger `json:"-" yaml:"-"`
	Presenter  Presenter    `json:"-" yaml:"-"`
	FileSystem FileSystem   `json:"-" yaml:"-"`
}

// Validate checks if the options are usable
func (o Options) Validate() error {
	for _, name := range o.Libraries {
		if _, ok := libraries[name]; !ok {
			return fmt.Errorf("unknown library %q", name)
		}
	}
	if o.CallStackSize < 0 {
		return fmt.Errorf("call stack size must not be negative")
	}
	if o.RegistrySize < 0 {
		return fmt.Errorf("registry size must not be negative")
	}
	if _, err := ParseLogLevel(o.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", o.LogLevel, err)
	}
	return nil
}

func (o Options) withDefaults() Options {
	if len(o.Libraries) == 0 {
		o.Libraries = DefaultLibraries
	}
	if o.AlertCategory == "" {
		o.AlertCategory = DefaultAlertCategory
	}
	if o.ChunkName == "" {
		o.ChunkName = DefaultChunkName
	}
	if o.Registry == nil {
		o.Registry = DefaultRegistry
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.Presenter == nil {
		o.Presenter = NewLogPresenter(o.Logger)
	}
	if o.FileSystem == nil {
		if o.ScriptRoot != "" {
			o.FileSystem = NewFSFileSystem(os.DirFS(o.ScriptRoot))
		} else {
			o.FileSystem = NewOSFileSystem()
		}
	}
	return o
}

func (o Options) luaOptions() lua.Options {
	return lua.Options{
		CallStackSize:       o.CallStackSize,
		RegistrySize:        o.RegistrySize,
		SkipOpenLibs:        true,
		IncludeGoStackTrace: o.IncludeGoStackTrace,
	}
}

// LoadOptionsFile loads options from a YAML file
func LoadOptionsFile(path string) (Options, error) {
	yamlData, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("failed to read options file: %w", err)
	}
	return LoadOptionsString(string(yamlData))
}

// LoadOptionsString loads options from a YAML string
func LoadOptionsString(data string) (Options, error) {
	var opts Options
	if err := yaml.Unmarshal([]byte(data), &opts); err != nil {
		return Options{}, fmt.Errorf("failed to unmarshal options: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}
