package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo                    Code = 1000
	LexUnknownChar             Code = 1001
	LexUnterminatedString      Code = 1002
	LexUnterminatedComment     Code = 1003
	LexUnterminatedHTMLComment Code = 1004
	LexUnterminatedEntity      Code = 1005
	LexNonBreakingSpace        Code = 1006

	// Синтаксические
	SynInfo                Code = 2000
	SynUnexpectedToken     Code = 2001
	SynUnknownTag          Code = 2002
	SynUnknownTest         Code = 2003
	SynElementMismatch     Code = 2004
	SynUnclosedElement     Code = 2005
	SynUnclosedTag         Code = 2006
	SynInvalidMapKey       Code = 2007
	SynMalformedArguments  Code = 2008
	SynUnexpectedEOF       Code = 2009
	SynInvalidAssignTarget Code = 2010

	// Файлы
	IOLoadFileError Code = 4001
	IOCacheError    Code = 4002
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                "Unknown error",
		LexInfo:                    "Lexical information",
		LexUnknownChar:             "Unknown character",
		LexUnterminatedString:      "Unterminated string",
		LexUnterminatedComment:     "Unterminated comment",
		LexUnterminatedHTMLComment: "Unterminated HTML comment",
		LexUnterminatedEntity:      "Unterminated entity",
		LexNonBreakingSpace:        "Non-breaking space",
		SynInfo:                    "Syntax information",
		SynUnexpectedToken:         "Unexpected token",
		SynUnknownTag:              "Unknown tag",
		SynUnknownTest:             "Unknown test",
		SynElementMismatch:         "Mismatched closing element",
		SynUnclosedElement:         "Unclosed element",
		SynUnclosedTag:             "Unclosed tag",
		SynInvalidMapKey:           "Invalid map key",
		SynMalformedArguments:      "Malformed argument list",
		SynUnexpectedEOF:           "Unexpected end of template",
		SynInvalidAssignTarget:     "Invalid assignment target",
		IOLoadFileError:            "I/O load file error",
		IOCacheError:               "Cache error",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// IsLexical reports whether the code belongs to the LEX family.
func (c Code) IsLexical() bool { return c >= 1000 && c < 2000 }
