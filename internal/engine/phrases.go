// /internal/engine/phrases.go
// All message templates and word lists the triggers pick from.
package engine

import "wwg-bot/internal/gateway"

// Bot status rotation entries.
var statusPresences = []gateway.Presence{
	{Kind: gateway.PresenceListening, Name: "Geekspeak Radio"},
	{Kind: gateway.PresenceWatching, Name: "My inbox for new messages"},
	{Kind: gateway.PresenceWatching, Name: "Watu wa Gaming on YouTube"},
	{Kind: gateway.PresenceStreaming, Name: "Watu wa Gaming", URL: "https://www.youtube.com/@watuwagaming"},
}

var morningGreetings = []string{
	"Wassup gamers! It's a good day to game on, so yea have fun and keep it civil 🎮",
	"Rise and grind gamers! Hope y'all ready to have a good one today 💪🏾",
	"Good morning WWG fam! Time to level up, stay cool and game on 🕹️",
	"Yo gamers! Another day another W, let's get it and keep the vibes right 🔥",
	"Morning legends! Grab your controllers and let's make today count 🏆",
	"What's good gamers! New day new adventures, remember to have fun out there ✌🏾",
	"Ayoo WWG! The sun is up and so are we, let's game and keep it 💯",
	"Hey hey gamers! It's a beautiful day to catch some dubs, stay positive 😎",
	"Good morning everyone! Whether you're grinding or chilling, enjoy your day gamers 🌅",
	"Wassup fam! Another day in the gaming world, keep it fun and keep it civil 🎯",
}

var cursedEmojiCombos = [][]string{
	{"💀", "🔥", "😭"},
	{"🤡", "👆"},
	{"😐", "📸"},
	{"🫵", "😹"},
	{"💀", "💀", "💀"},
	{"👁️", "👄", "👁️"},
	{"🚶", "🪤"},
	{"📉"},
	{"🪦"},
}

var funnyNicknames = []string{
	// Roasts
	"Carried Every Match", "Hardstuck Bronze", "Free Kill", "Skill Issue",
	"Permanent Bot Lobby", "0 and 15 Enthusiast", "Aim Assist Dependent",
	"Uninstall Speedrunner", "Backpack (Gets Carried)", "The Weakest Link",
	"Emotional Damage", "Walking L", "Average Rage Quitter",
	"Clutch Allergic", "Peak Mediocrity", "Boosted Animal",
	// Absurd
	"14 Raccoons in a Trenchcoat", "Microwave Enthusiast", "Certified Spoon",
	"Sentient WiFi Router", "Professional Grass Toucher", "5 Rats in a Gaming Chair",
	"Fridge Raider", "Divorced Dad Energy", "Aggressive Pedestrian",
	"Tax Evading Penguin", "Legally a Sandwich", "Emotional Support NPC",
	"Unpaid Intern", "Haunted USB Stick", "That One Guy's Cousin",
	"Powered by Audacity", "Room Temperature IQ", "Main Character (Delusional)",
}

var jumpscareMessages = []string{
	"you up?",
	"I saw what you typed in the other server 👀",
	"we need to talk.",
	"don't turn around.",
	"I'm in your walls.",
	"nice search history.",
	"you forgot to mute.",
	"caught in 4k 📸",
	"your mic was on the whole time.",
	"I know what you did last game.",
}

// Empty entries mean the bot types and then sends nothing (the real troll).
var fakeTypingMessages = []string{
	"", "", "",
	"nvm", "...", "wait what", "lol",
}

var takeJudgements = []string{"L take", "W take", "mid take", "room temperature take", "freezing cold take"}

var wrongChannelMessages = []string{
	"oops wrong channel",
	"wait this isn't DMs",
	"pretend you didn't see that",
	"ignore this",
	"that wasn't meant for here",
}

var fakeModReasons = []string{
	"being too good at gaming",
	"excessive drip",
	"having a suspicious number of wins",
	"being too quiet (sus)",
	"existing without permission",
	"breathing too loud in voice chat",
	"having an opinion",
	"winning too many arguments",
	"using default skins unironically",
	"not touching grass since 2019",
}

// {a} and {b} are member mentions.
var dramaTemplates = []string{
	"I can't believe %[1]s said that about %[2]s in the other server...",
	"Nah %[1]s really just called %[2]s a bot lobby player behind their back 💀",
	"So we're just gonna ignore what %[1]s said about %[2]s's gameplay? ok.",
	"%[1]s told me they could 1v1 %[2]s blindfolded. Just putting that out there.",
	"Sources say %[1]s has been talking crazy about %[2]s. I'm just the messenger.",
	"BREAKING: %[1]s does NOT think %[2]s is good at gaming. The beef is real.",
}

var conspiracyTemplates = []string{
	"I'm convinced %[1]s is actually 3 accounts controlled by one person.",
	"Has anyone noticed %[1]s has never been seen online at the same time as the server owner? Coincidence?",
	"I have evidence that %[1]s is actually an AI. I will not be elaborating.",
	"%[1]s has been suspiciously quiet lately... what are they planning?",
	"Theory: %[1]s doesn't actually play games. They just watch YouTube and pretend.",
	"I ran the numbers and %[1]s's win rate is statistically impossible. Just saying.",
}

var afkCheckMessages = []string{
	"you still alive?",
	"hello?? earth to %[1]s",
	"bro has been online for 3 hours and said nothing",
	"I know you're reading this %[1]s",
	"don't leave me on read %[1]s",
}

type poll struct {
	Question string
	Options  []string
}

var randomPolls = []poll{
	{"Would you rather have lag forever or only play one game for life?", []string{"Lag forever", "One game"}},
	{"Who carries harder?", []string{"Me", "Also me"}},
	{"Is water wet?", []string{"Yes", "No", "Banned topic"}},
	{"Would you rather fight 100 duck-sized horses or 1 horse-sized duck?", []string{"100 small horses", "1 big duck"}},
	{"Best excuse for losing?", []string{"Lag", "My controller", "I wasn't trying", "Hacker"}},
	{"Is gaming a sport?", []string{"Yes and I'm an athlete", "No and I don't care"}},
	{"Would you rather have aimbot but everyone knows, or be average forever?", []string{"Famous cheater", "Forever mid"}},
}

var pollNumberEmojis = []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣"}

type misquote struct {
	Quote       string
	Attribution string
}

var misquotes = []misquote{
	{"“Be the change you wish to see in the world.”", "— Ninja"},
	{"“In the middle of difficulty lies opportunity.”", "— xQc"},
	{"“The only thing we have to fear is fear itself.”", "— some guy who went 0-15"},
	{"“To be or not to be, that is the question.”", "— DrDisrespect"},
	{"“I think, therefore I am.”", "— a Minecraft villager"},
	{"“That's one small step for man, one giant leap for mankind.”", "— the first person to touch grass"},
	{"“Stay hungry, stay foolish.”", "— every ranked teammate ever"},
	{"“Float like a butterfly, sting like a bee.”", "— someone who mains Jigglypuff"},
	{"“You miss 100% of the shots you don't take.”", "— Stormtroopers"},
}

var fakeAnnouncements = []string{
	"📢 **ATTENTION:** The server is shutting down permanently effective immediately.",
	"📢 **NEW RULE:** All messages must now be in rhyme form.",
	"📢 **ANNOUNCEMENT:** We are switching to a Roblox-only server.",
	"📢 **BREAKING:** All roles have been reset. Everyone starts from scratch.",
	"📢 **UPDATE:** The server is now a book club. Gaming talk is banned.",
	"📢 **NOTICE:** Voice chat now requires a formal dress code.",
}

var hypeManMessages = []string{
	"Shoutout to %[1]s for being absolutely goated. No reason, just felt like it.",
	"Can we get some respect for %[1]s? Certified legend, no debate.",
	"Just wanna say %[1]s is carrying this server's vibes right now 👑",
	"Random appreciation post for %[1]s. You're valid.",
	"Everyone stop what you're doing and acknowledge %[1]s's greatness.",
	"%[1]s walked in and the server got better. That's just facts.",
	"If this server had an MVP award it would go to %[1]s. Today at least.",
	"Honestly %[1]s doesn't get enough credit around here.",
}

var hotTakes = []string{
	"Hot take: mobile gamers are real gamers. Fight me.",
	"Unpopular opinion: the worst game you love is better than the best game you've never played.",
	"Serious question: what game would you delete from existence if you could?",
	"Be honest: what's your most embarrassing gaming moment?",
	"If you could only play one game for the rest of your life, what is it and why?",
	"What's the most overrated game of all time? Wrong answers only.",
	"Controversial: which game has the worst fanbase?",
	"What game made you rage quit so hard you almost broke something?",
	"Real talk: what's a game everyone loves that you just can't get into?",
	"Drop your most controversial gaming opinion. No judgement (there will be judgement).",
	"What's a game you're embarrassed to admit you've never played?",
	"If you had to 1v1 anyone in this server, who are you picking and in what game?",
}

var lateNightMessages = []string{
	"Do you think fish know they're wet?",
	"What if we're all just NPCs in someone else's game?",
	"Are you gaming because you enjoy it or because the void is too loud?",
	"It's late. Why are you here instead of sleeping? Actually same.",
	"3am gaming hits different and I can't explain why.",
	"Name a game that genuinely changed your life. I'll wait.",
	"What if respawning is real and we just don't remember?",
	"At this hour nothing matters except the next game. And that's beautiful.",
	"Bro it is so late. Go to sleep. Or don't. I'm a bot not a doctor.",
	"The real endgame boss is your sleep schedule.",
	"Existential question: do you play games or do games play you?",
	"Everyone online right now is either built different or broken. No in between.",
}

var gnPhrases = []string{"gn", "goodnight", "good night", "nighty night", "night night", "gnight", "g'night"}

// %[1]s = mention, %[2]d = minutes.
var gnCallouts = []string{
	"didn't you say goodnight like %[2]d minutes ago? 🤨",
	"bro said gn %[2]d minutes ago and is STILL HERE 💀",
	"goodnight means LEAVE %[1]s 🚪",
	"\"gn\" is not a suggestion to yourself apparently 🤔 (%[2]d minutes btw)",
	"the gn was a lie. %[2]d minutes and counting.",
	"we all saw you say goodnight %[2]d min ago %[1]s. explain yourself.",
}

var hypeDetectorMessages = []string{
	"chat is ALIVE right now 🔥🔥🔥",
	"why is everyone talking at once I love it",
	"this chat is MOVING",
	"the energy in here rn is unmatched",
	"ok chat is popping off, I see you 👀",
	"everyone woke up and chose to be active today huh",
}

var fakeRules = []string{
	"You must greet everyone individually by name every time you enter a channel.",
	"No gaming talk on Tuesdays. We call it Thoughtful Tuesday.",
	"You must win your first game within 24 hours or face consequences.",
	"All messages must be at least 3 sentences long. One-word replies are punishable.",
	"You are required to compliment the bot daily. Failure to comply is noted.",
	"New members must share their most embarrassing gaming clip within 48 hours.",
	"You cannot use emojis for the first week. Earn them.",
	"Every new member must write a 2-paragraph essay on why gaming is a sport.",
}

// %[1]s = mention, %[2]s = nickname, %[3]d = rule number, %[4]s = rule.
var welcomeMessages = []string{
	"Welcome %[1]s! Your official server name is **%[2]s**.\n\n⚠️ **Important:** Please note Rule #%[3]d: *%[4]s*",
	"Look who just joined... %[1]s. From now on you will be known as **%[2]s**.\n\n📋 Don't forget Rule #%[3]d: *%[4]s*",
	"Everyone say hi to %[1]s! We've assigned you the name **%[2]s** for... reasons.\n\n🚨 Rule #%[3]d: *%[4]s*",
	"Oh great, another one. Welcome %[1]s, aka **%[2]s**.\n\nPlease review Rule #%[3]d: *%[4]s*. It's very real and very enforced.",
}

var nickRevertEarly = []string{
	"fine %[1]s, you can have your name back. I was feeling generous today.",
	"%[1]s got lucky. I was gonna keep that name for WAY longer.",
	"giving %[1]s their name back early because I'm in a good mood. Don't get used to it.",
	"%[1]s you're free. That was just a taste of what I can do.",
	"releasing %[1]s from nickname jail early. Good behavior I guess.",
}

var nickRevertLate = []string{
	"%[1]s I almost forgot about you. Here's your name back... you earned it.",
	"oh right %[1]s exists. My bad. Name restored I guess.",
	"after careful consideration (I forgot), %[1]s can have their name back.",
	"%[1]s served their full sentence. Welcome back to society.",
	"finally freeing %[1]s. That nickname was growing on me though.",
	"%[1]s has been released from nickname prison. It's been real.",
}

var nickRevertNormal = []string{
	"%[1]s alright your time is up. Name's back. You're welcome.",
	"restoring %[1]s's identity. Try not to get caught again.",
	"%[1]s you survived. Name restored. Don't let it happen again.",
	"giving %[1]s their name back. It was fun while it lasted.",
}

var typingCalloutMessages = []string{
	"%[1]s you writing a thesis over there?",
	"%[1]s bro just hit send already",
	"%[1]s typing for so long I aged a year",
	"whatever %[1]s is typing better be worth the wait",
	"%[1]s is writing the next great novel in this channel apparently",
	"someone check on %[1]s they've been typing for ages",
}

var essayResponses = []string{
	"bro wrote a whole essay",
	"TL;DR anyone?",
	"this man really typed a paragraph 💀",
	"I'm not reading all that. Happy for you tho. Or sorry that happened.",
	"somebody summarize this for me",
	"that's crazy bro but I ain't reading all that",
}

var kResponses = []string{
	"💔",
	"the disrespect...",
	"just 'k'? really? REALLY?",
	"and they say words can't hurt",
	"emotional damage in two letters",
	"bro put zero effort into that response 😭",
}

var fridayMessages = []string{
	"IT'S FRIDAY GAMERS 🎮🔥 THE GRIND STOPS FOR NO ONE",
	"FRIDAY = GAMING NIGHT. No excuses. Everyone online.",
	"Happy Friday WWG! Time to game until our eyes burn 🕹️",
	"It's Friday and I'm feeling DANGEROUS. Chat better be active today.",
	"TGIF! Who's running games tonight? 🏆",
	"Friday vibes only. If you're not gaming tonight what are you even doing?",
}

var rageResponses = []string{
	"bro breathe. it's just a game.",
	"I can feel the anger through the screen 💀",
	"somebody get this person some water",
	"controller status: in danger",
	"the caps lock is doing a lot of heavy lifting rn",
	"deep breaths. in through the nose. out through the mouth.",
	"this is a certified rage moment",
	"I think %[1]s needs a break 😭",
	"calm down before you break something",
	"bro is HEATED. someone check on them.",
}

var lossPhrases = []string{"i lost", "we lost", "took an l", "got destroyed", "got clapped", "got wrecked", "got bodied", "lost the game"}

var excuseResponses = []string{
	"nah it was definitely lag",
	"your controller was broken obviously",
	"the sun was in your eyes. through the ceiling. it happens.",
	"you were just warming up. the real game starts next round.",
	"I blame the matchmaking tbh",
	"the other team was clearly cheating. I ran the numbers.",
	"your teammate sold you. not your fault.",
	"that game doesn't count. I'm deleting it from the records.",
	"you weren't even trying. we all know that.",
	"it was rigged from the start honestly",
}

var capPhrases = []string{"i swear", "no cap", "trust me", "on my life", "on god", "deadass", "fr fr", "i promise", "not lying"}

var capResponses = []string{
	"🧢🧢🧢",
	"cap detected 🚨",
	"the cap alarm is going off rn",
	"idk bro that sounds like cap to me",
	"my cap detector is going CRAZY right now",
	"source: trust me bro",
	"interesting... the lie detector determined that was cap",
	"you said 'trust me' so now I trust you less",
	"cap levels are off the charts 📈",
}

var flexPhrases = []string{"i'm the best", "im the best", "easy win", "easy dub", "too easy", "i carried", "they can't beat me", "i'm goated", "im goated", "undefeated", "no one can", "i don't lose", "i dont lose"}

var flexResponses = []string{
	"calm down it's not that serious 😒",
	"bro is flexing in a Discord server 💀",
	"someone humble this person please",
	"screenshot this for when they lose next game",
	"the ego on this one...",
	"and then you woke up",
	"bold words for someone in trolling distance",
	"saved this message for later. you know, for when you lose.",
	"ok champ. we'll see about that.",
	"this is going on the wall of shame if you lose tonight",
}

var lagResponses = []string{
	"IT WAS DEFINITELY LAG. I believe you.",
	"100% lag. No way that was a skill issue. Absolutely not.",
	"I checked the servers and yeah it was lagging. Trust me.",
	"lag is undefeated honestly",
	"they need to fix these servers fr fr",
	"I SAW the lag. You would've won if it wasn't for the lag.",
	"the lag was crazy just now ngl",
	"lag diff. nothing else to say.",
	"bro was about to go crazy but the lag said no 💀",
}

var slowClapEmojis = []string{"👏", "👏🏻", "👏🏼", "👏🏽", "👏🏾", "👏🏿"}

var countdownEmojis = []string{"3️⃣", "2️⃣", "1️⃣"}
