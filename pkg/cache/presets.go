package cache

import (
	"sort"
	"sync"
	"time"
)

// Preset names.
//
// 预设名称。
const (
	PresetStudyPlans         = "study_plans"
	PresetNotes              = "notes"
	PresetQuizzes            = "quizzes"
	PresetProgress           = "progress"
	PresetStaticContent      = "static_content"
	PresetTemp               = "temp"
	PresetSession            = "session"
	PresetAIGeneratedContent = "ai_generated_content"
)

const (
	day = 24 * time.Hour
	mib = 1024 * 1024
)

// StudyPlanValidator accepts an entry whose examType, daysLeft and
// progressHash metadata equal the context's. A nil context accepts anything.
//
// StudyPlanValidator 接受examType、daysLeft和progressHash元数据与上下文相等的条目。
// nil上下文接受任何条目。
func StudyPlanValidator(entry *Entry, vctx Context) bool {
	if vctx == nil {
		return true
	}
	return entry.Metadata.Matches(vctx, "examType", "daysLeft", "progressHash")
}

// NotesValidator accepts an entry whose version matches the context's.
// A nil context or an empty context version accepts anything.
//
// NotesValidator 接受版本与上下文匹配的条目。
// nil上下文或空的上下文版本接受任何条目。
func NotesValidator(entry *Entry, vctx Context) bool {
	if vctx == nil {
		return true
	}
	want, _ := vctx["version"].(string)
	if want == "" {
		return true
	}
	return entry.Metadata.Version() == want
}

// DefaultPresets returns a fresh copy of the built-in policies.
//
// DefaultPresets 返回内置策略的新副本。
func DefaultPresets() map[string]Config {
	return map[string]Config{
		PresetStudyPlans:         {TTL: day, MaxEntries: 10, Validator: StudyPlanValidator},
		PresetNotes:              {TTL: 7 * day, MaxSize: 10 * mib, Compress: true, Validator: NotesValidator},
		PresetQuizzes:            {TTL: 3 * day, MaxEntries: 50, Compress: true},
		PresetProgress:           {TTL: time.Hour, MaxEntries: 20},
		PresetStaticContent:      {TTL: 30 * day, MaxSize: 50 * mib, Compress: true},
		PresetTemp:               {TTL: 5 * time.Minute, MaxEntries: 100},
		PresetSession:            {MaxEntries: 50},
		PresetAIGeneratedContent: {TTL: 7 * day, Compress: true},
	}
}

// Override adjusts a preset. Zero fields keep the current value;
// Compress is a pointer so that it can be switched off.
//
// Override 调整预设。零值字段保留当前值；Compress是指针以便可以关闭。
type Override struct {
	TTL        time.Duration
	MaxAge     time.Duration
	MaxEntries int
	MaxSize    int64
	Compress   *bool
}

// Catalog is the table of named cache policies.
// It is safe for concurrent use and can be re-applied on config reload.
//
// Catalog 是命名缓存策略表。
// 它可以安全地并发使用，并可在配置重新加载时重新应用。
type Catalog struct {
	mu      sync.RWMutex
	presets map[string]Config
}

// NewCatalog creates a catalog holding DefaultPresets.
//
// NewCatalog 创建一个包含DefaultPresets的目录。
func NewCatalog() *Catalog {
	return &Catalog{presets: DefaultPresets()}
}

// Preset returns the named policy.
//
// Preset 返回指定名称的策略。
//
// Returns:
//   - Config: The policy, or the zero Config when unknown
//   - bool: True if the preset exists
func (c *Catalog) Preset(name string) (Config, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cfg, ok := c.presets[name]
	return cfg, ok
}

// MustPreset returns the named policy and panics if it is unknown.
//
// MustPreset 返回指定名称的策略，未知时panic。
func (c *Catalog) MustPreset(name string) Config {
	cfg, ok := c.Preset(name)
	if !ok {
		panic("cache: unknown preset " + name)
	}
	return cfg
}

// Register adds or replaces a preset.
//
// Register 添加或替换预设。
func (c *Catalog) Register(name string, cfg Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.presets[name] = cfg
}

// Apply overrides fields of an existing preset, or creates it from the
// override alone when the name is new. Validators are never replaced.
//
// Apply 覆盖现有预设的字段，名称为新时仅根据覆盖创建。验证器永远不会被替换。
func (c *Catalog) Apply(name string, o Override) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cfg := c.presets[name]
	if o.TTL > 0 {
		cfg.TTL = o.TTL
	}
	if o.MaxAge > 0 {
		cfg.MaxAge = o.MaxAge
	}
	if o.MaxEntries > 0 {
		cfg.MaxEntries = o.MaxEntries
	}
	if o.MaxSize > 0 {
		cfg.MaxSize = o.MaxSize
	}
	if o.Compress != nil {
		cfg.Compress = *o.Compress
	}
	c.presets[name] = cfg
}

// Reset restores DefaultPresets, discarding overrides and registrations.
//
// Reset 恢复DefaultPresets，丢弃覆盖和注册。
func (c *Catalog) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.presets = DefaultPresets()
}

// Names lists the preset names in lexical order.
//
// Names 按字典序列出预设名称。
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.presets))
	for name := range c.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
