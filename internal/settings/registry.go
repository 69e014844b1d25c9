package settings

// ValueType describes how a setting value is validated and rendered.
type ValueType string

const (
	TypeBool   ValueType = "bool"
	TypeInt    ValueType = "int"
	TypeFloat  ValueType = "float"
	TypeString ValueType = "string"
	TypeList   ValueType = "list"
)

// Setting is the static metadata for one runtime key. The store falls back
// to Default when the key is absent; the dashboard renders from this table.
type Setting struct {
	Key         string
	Default     any
	Type        ValueType
	Category    string
	Description string
}

// Registry lists every runtime setting the bot reads. Keys follow the
// feature.<trigger>.* / bg_troll.<name>.enabled / channels.* namespaces.
var Registry = []Setting{
	// Morning Greeting
	{"feature.morning_greeting.enabled", true, TypeBool, "Morning Greeting", "Enable morning greeting messages"},
	{"feature.morning_greeting.hour_min", 6, TypeInt, "Morning Greeting", "Earliest hour for greeting"},
	{"feature.morning_greeting.hour_max", 10, TypeInt, "Morning Greeting", "Latest hour for greeting"},

	// Troll Loop
	{"feature.troll_loop.enabled", true, TypeBool, "Troll Loop", "Enable background troll loop"},
	{"feature.troll_loop.weekday_min_hours", 1.0, TypeFloat, "Troll Loop", "Min hours between trolls (weekdays)"},
	{"feature.troll_loop.weekday_max_hours", 4.0, TypeFloat, "Troll Loop", "Max hours between trolls (weekdays)"},
	{"feature.troll_loop.weekend_min_hours", 0.5, TypeFloat, "Troll Loop", "Min hours between trolls (weekends)"},
	{"feature.troll_loop.weekend_max_hours", 2.0, TypeFloat, "Troll Loop", "Max hours between trolls (weekends)"},
	{"feature.troll_loop.initial_delay_min", 300, TypeInt, "Troll Loop", "Min initial delay in seconds"},
	{"feature.troll_loop.initial_delay_max", 1800, TypeInt, "Troll Loop", "Max initial delay in seconds"},

	// Dead Chat Reviver
	{"feature.dead_chat.enabled", true, TypeBool, "Dead Chat Reviver", "Enable dead chat reviver"},
	{"feature.dead_chat.check_interval_min", 30, TypeInt, "Dead Chat Reviver", "Check interval in minutes"},
	{"feature.dead_chat.silence_threshold_sec", 7200, TypeInt, "Dead Chat Reviver", "Silence threshold in seconds"},
	{"feature.dead_chat.chance", 0.05, TypeFloat, "Dead Chat Reviver", "Chance to revive (0-1)"},
	{"feature.dead_chat.channel_id", "", TypeString, "Dead Chat Reviver", "Channel for dead chat revival (falls back to general)"},

	// Status Rotation
	{"feature.status_rotation.enabled", true, TypeBool, "Status Rotation", "Enable status rotation"},
	{"feature.status_rotation.interval_sec", 600, TypeInt, "Status Rotation", "Interval between rotations in seconds"},
	{"feature.status_rotation.member_mention_chance", 0.10, TypeFloat, "Status Rotation", "Chance to show 'Playing with [member]'"},

	// Game Detection
	{"feature.game_detection.enabled", true, TypeBool, "Game Detection", "Enable game detection pings"},
	{"feature.game_detection.min_players", 2, TypeInt, "Game Detection", "Min players already in-game to trigger"},
	{"feature.game_detection.chance", 0.03, TypeFloat, "Game Detection", "Chance to ping (0-1)"},
	{"feature.game_detection.game_cooldown_sec", 86400, TypeInt, "Game Detection", "Per-game cooldown in seconds"},
	{"feature.game_detection.user_cooldown_sec", 86400, TypeInt, "Game Detection", "Per-user cooldown in seconds"},

	// Typing Callout
	{"feature.typing_callout.enabled", true, TypeBool, "Typing Callout", "Enable typing callout"},
	{"feature.typing_callout.duration_sec", 60, TypeInt, "Typing Callout", "Seconds of typing before callout"},
	{"feature.typing_callout.chance", 0.10, TypeFloat, "Typing Callout", "Chance to call out (0-1)"},
	{"feature.typing_callout.stale_sec", 120, TypeInt, "Typing Callout", "Seconds before tracker entry goes stale"},

	// Reaction Chain
	{"feature.reaction_chain.enabled", true, TypeBool, "Reaction Chain", "Enable reaction chain joining"},
	{"feature.reaction_chain.threshold", 3, TypeInt, "Reaction Chain", "Min non-bot reactions to trigger"},

	// GN Police
	{"feature.gn_police.enabled", true, TypeBool, "GN Police", "Enable goodnight police"},
	{"feature.gn_police.min_minutes", 20, TypeInt, "GN Police", "Min minutes after GN to call out"},
	{"feature.gn_police.max_minutes", 180, TypeInt, "GN Police", "Max minutes after GN to call out"},
	{"feature.gn_police.chance", 0.10, TypeFloat, "GN Police", "Chance to call out (0-1)"},

	// Hype Detector
	{"feature.hype_detector.enabled", true, TypeBool, "Hype Detector", "Enable hype detector"},
	{"feature.hype_detector.threshold_messages", 15, TypeInt, "Hype Detector", "Messages in time window to trigger"},
	{"feature.hype_detector.time_window_sec", 60, TypeInt, "Hype Detector", "Time window in seconds"},
	{"feature.hype_detector.cooldown_min", 30, TypeInt, "Hype Detector", "Cooldown in minutes after triggering"},
	{"feature.hype_detector.weekday_chance", 0.05, TypeFloat, "Hype Detector", "Chance on weekdays (0-1)"},
	{"feature.hype_detector.weekend_chance", 0.05, TypeFloat, "Hype Detector", "Chance on weekends (0-1)"},

	// Late Night Mode
	{"feature.late_night.enabled", true, TypeBool, "Late Night Mode", "Enable late night bonus trolls"},
	{"feature.late_night.start_hour", 0, TypeInt, "Late Night Mode", "Start hour"},
	{"feature.late_night.end_hour", 5, TypeInt, "Late Night Mode", "End hour"},
	{"feature.late_night.bonus_chance", 0.03, TypeFloat, "Late Night Mode", "Bonus troll chance (0-1)"},

	// Welcome Hazing
	{"feature.welcome_hazing.enabled", true, TypeBool, "Welcome Hazing", "Enable welcome hazing"},
	{"feature.welcome_hazing.chance", 0.10, TypeFloat, "Welcome Hazing", "Chance to haze new member (0-1)"},
	{"feature.welcome_hazing.nick_revert_min_hours", 1.0, TypeFloat, "Welcome Hazing", "Min hours before reverting nickname"},
	{"feature.welcome_hazing.nick_revert_max_hours", 168.0, TypeFloat, "Welcome Hazing", "Max hours before reverting nickname"},

	// Rage Detector
	{"feature.rage_detector.enabled", true, TypeBool, "Rage Detector", "Enable rage detector"},
	{"feature.rage_detector.caps_threshold", 0.70, TypeFloat, "Rage Detector", "Caps ratio to detect rage (0-1)"},
	{"feature.rage_detector.min_length", 10, TypeInt, "Rage Detector", "Min message length for caps check"},
	{"feature.rage_detector.exclaim_threshold", 3, TypeInt, "Rage Detector", "Exclamation marks to detect rage"},
	{"feature.rage_detector.chance", 0.10, TypeFloat, "Rage Detector", "Chance to respond (0-1)"},

	// Excuse Generator
	{"feature.excuse_generator.enabled", true, TypeBool, "Excuse Generator", "Enable excuse generator"},
	{"feature.excuse_generator.chance", 0.10, TypeFloat, "Excuse Generator", "Chance to respond (0-1)"},

	// Cap Alarm
	{"feature.cap_alarm.enabled", true, TypeBool, "Cap Alarm", "Enable cap alarm"},
	{"feature.cap_alarm.chance", 0.10, TypeFloat, "Cap Alarm", "Chance to respond (0-1)"},

	// Flex Police
	{"feature.flex_police.enabled", true, TypeBool, "Flex Police", "Enable flex police"},
	{"feature.flex_police.chance", 0.10, TypeFloat, "Flex Police", "Chance to respond (0-1)"},

	// Lag Defender
	{"feature.lag_defender.enabled", true, TypeBool, "Lag Defender", "Enable lag defender"},
	{"feature.lag_defender.chance", 0.10, TypeFloat, "Lag Defender", "Chance to respond (0-1)"},

	// Essay Detector
	{"feature.essay_detector.enabled", true, TypeBool, "Essay Detector", "Enable essay detector"},
	{"feature.essay_detector.threshold_chars", 500, TypeInt, "Essay Detector", "Min characters to trigger"},
	{"feature.essay_detector.chance", 0.10, TypeFloat, "Essay Detector", "Chance to respond (0-1)"},

	// K Energy
	{"feature.k_energy.enabled", true, TypeBool, "K Energy", "Enable K energy detector"},
	{"feature.k_energy.chance", 0.10, TypeFloat, "K Energy", "Chance to respond (0-1)"},

	// Per-Message Trolls
	{"feature.per_message_trolls.enabled", true, TypeBool, "Per-Message Trolls", "Enable per-message troll reactions"},
	{"feature.per_message_trolls.weekday_chance", 0.05, TypeFloat, "Per-Message Trolls", "Base chance on weekdays (0-1)"},
	{"feature.per_message_trolls.weekend_chance", 0.08, TypeFloat, "Per-Message Trolls", "Base chance on weekends (0-1)"},

	// Message Cache
	{"feature.message_cache.chance", 0.10, TypeFloat, "Per-Message Trolls", "Chance to cache a message for 'this you'"},
	{"feature.message_cache.per_author_max", 5, TypeInt, "Per-Message Trolls", "Max cached messages per author"},

	// Channels
	{"channels.general_id", "", TypeString, "Channels", "General channel ID"},
	{"channels.greetings_id", "", TypeString, "Channels", "Greetings channel ID"},
	{"channels.gamers_arena_id", "", TypeString, "Channels", "Gamers Arena channel ID"},
	{"channels.modmail_id", "", TypeString, "Channels", "Modmail channel ID"},
	{"channels.excluded", []string{}, TypeList, "Channels", "Channel IDs excluded from trolling"},

	// Background Trolls (individual toggles)
	{"bg_troll.jumpscare_ping.enabled", true, TypeBool, "Background Trolls", "Jumpscare Ping"},
	{"bg_troll.this_you.enabled", true, TypeBool, "Background Trolls", "This You?"},
	{"bg_troll.rename_roulette.enabled", true, TypeBool, "Background Trolls", "Rename Roulette"},
	{"bg_troll.vibe_check.enabled", true, TypeBool, "Background Trolls", "Vibe Check"},
	{"bg_troll.wrong_channel.enabled", true, TypeBool, "Background Trolls", "Wrong Channel"},
	{"bg_troll.fake_mod_action.enabled", true, TypeBool, "Background Trolls", "Fake Mod Action"},
	{"bg_troll.server_drama.enabled", true, TypeBool, "Background Trolls", "Server Drama"},
	{"bg_troll.afk_check.enabled", true, TypeBool, "Background Trolls", "AFK Check"},
	{"bg_troll.random_poll.enabled", true, TypeBool, "Background Trolls", "Random Poll"},
	{"bg_troll.motivational_misquote.enabled", true, TypeBool, "Background Trolls", "Motivational Misquote"},
	{"bg_troll.fake_announcement.enabled", true, TypeBool, "Background Trolls", "Fake Announcement"},
	{"bg_troll.conspiracy_theory.enabled", true, TypeBool, "Background Trolls", "Conspiracy Theory"},
	{"bg_troll.hype_man.enabled", true, TypeBool, "Background Trolls", "Hype Man"},
	{"bg_troll.friday_hype.enabled", true, TypeBool, "Background Trolls", "Friday Hype"},
}

var registryIndex = func() map[string]Setting {
	idx := make(map[string]Setting, len(Registry))
	for _, s := range Registry {
		idx[s.Key] = s
	}
	return idx
}()

// Lookup returns the metadata for a key, if registered.
func Lookup(key string) (Setting, bool) {
	s, ok := registryIndex[key]
	return s, ok
}

// DefaultFor returns the registered default for a key, or nil.
func DefaultFor(key string) any {
	if s, ok := registryIndex[key]; ok {
		return s.Default
	}
	return nil
}

// Grouped returns all settings grouped by category, registry order preserved
// within each group. Current values are filled in by the caller.
func Grouped() map[string][]Setting {
	out := make(map[string][]Setting)
	for _, s := range Registry {
		out[s.Category] = append(out[s.Category], s)
	}
	return out
}
