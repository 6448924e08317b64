package bot

import "strings"

// CommandParser разбирает команды с префиксами /, ! и .
type CommandParser struct {
	prefixes []string
}

// NewCommandParser создаёт парсер команд.
func NewCommandParser() *CommandParser {
	return &CommandParser{prefixes: []string{"/", "!", "."}}
}

// ParseCommand разбирает текст на команду и аргументы.
// Суффикс @имя_бота у команды отбрасывается: /done@stamp_bot 2 == /done 2.
func (p *CommandParser) ParseCommand(text string) (cmd string, args []string, ok bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", nil, false
	}

	head, found := p.stripPrefix(fields[0])
	if !found {
		return "", nil, false
	}
	head, _, _ = strings.Cut(head, "@")
	if head == "" {
		return "", nil, false
	}

	if len(fields) > 1 {
		args = fields[1:]
	}
	return strings.ToLower(head), args, true
}

func (p *CommandParser) stripPrefix(word string) (string, bool) {
	for _, prefix := range p.prefixes {
		if rest, found := strings.CutPrefix(word, prefix); found {
			return rest, true
		}
	}
	return "", false
}
