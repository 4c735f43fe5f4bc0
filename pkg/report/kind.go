package report

import (
	"fmt"
	"strings"
)

// Kind classifies a diagnostic.
type Kind int

const (
	// InvalidJSON is a file that could not be parsed.
	InvalidJSON Kind = iota
	// InvalidTagMembers lists tag members that do not exist.
	InvalidTagMembers
	// LoopingTag lists references that lead back to the tag itself.
	LoopingTag
	// InvalidTagDependency lists references to tags that do not exist.
	InvalidTagDependency
	// WrongExtension is a resource file with a mangled extension, like foo.mcfunction.txt.
	WrongExtension
)

var kindNames = [...]string{
	InvalidJSON:          "INVALID_JSON",
	InvalidTagMembers:    "INVALID_TAG_MEMBERS",
	LoopingTag:           "LOOPING_TAG",
	InvalidTagDependency: "INVALID_TAG_DEPENDENCY",
	WrongExtension:       "WRONG_EXTENSION",
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	return []Kind{InvalidJSON, InvalidTagMembers, LoopingTag, InvalidTagDependency, WrongExtension}
}

// TagKinds are the kinds a tag resolver owns for its files.
func TagKinds() []Kind {
	return []Kind{InvalidTagDependency, InvalidTagMembers, LoopingTag}
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind accepts the upper snake case names, case-insensitively.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if strings.EqualFold(name, s) {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
