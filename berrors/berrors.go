package berrors

const (
	NextWithoutFor = iota + 1
	Syntax
	ReturnWoGosub
	IllegalQuantity
	Overflow
	DivByZero
	TypeMismatch
	UnDefinedLineNumber
	UnknownCommand
	ArgCount
	UndefinedFunction
	StringTooLong
	FileNotFound
	DeviceNotPresent
	FileData
	CantContinue
	OutOfMemory
)

// Kind groups error codes into the categories a caller can act on
type Kind int

const (
	Unknown Kind = iota
	SyntaxError
	TypeMismatchError
	UndefinedLine
	StackUnderflow
	DomainError
	DivisionByZero
	ArityError
	UnknownCommandError
	IOError
	StackOverflow
)

// TextForError returns the error text based on error number
func TextForError(err int) string {
	switch err {
	case NextWithoutFor:
		return "NEXT WITHOUT FOR"
	case Syntax:
		return "SYNTAX"
	case ReturnWoGosub:
		return "RETURN WITHOUT GOSUB"
	case IllegalQuantity:
		return "ILLEGAL QUANTITY"
	case Overflow:
		return "OVERFLOW"
	case DivByZero:
		return "DIVISION BY ZERO"
	case TypeMismatch:
		return "TYPE MISMATCH"
	case UnDefinedLineNumber:
		return "UNDEF'D STATEMENT"
	case UnknownCommand:
		return "UNKNOWN COMMAND"
	case ArgCount:
		return "ARGUMENT COUNT"
	case UndefinedFunction:
		return "UNDEF'D FUNCTION"
	case StringTooLong:
		return "STRING TOO LONG"
	case FileNotFound:
		return "FILE NOT FOUND"
	case DeviceNotPresent:
		return "DEVICE NOT PRESENT"
	case FileData:
		return "FILE DATA"
	case CantContinue:
		return "CAN'T CONTINUE"
	case OutOfMemory:
		return "OUT OF MEMORY"
	}

	return "UNPRINTABLE"
}

// KindOf maps an error code onto its Kind
func KindOf(err int) Kind {
	switch err {
	case Syntax:
		return SyntaxError
	case TypeMismatch:
		return TypeMismatchError
	case UnDefinedLineNumber:
		return UndefinedLine
	case NextWithoutFor, ReturnWoGosub:
		return StackUnderflow
	case IllegalQuantity, Overflow, StringTooLong:
		return DomainError
	case DivByZero:
		return DivisionByZero
	case ArgCount:
		return ArityError
	case UnknownCommand, UndefinedFunction:
		return UnknownCommandError
	case FileNotFound, DeviceNotPresent, FileData:
		return IOError
	case OutOfMemory:
		return StackOverflow
	}

	return Unknown
}

func (k Kind) String() string {
	switch k {
	case SyntaxError:
		return "SyntaxError"
	case TypeMismatchError:
		return "TypeMismatch"
	case UndefinedLine:
		return "UndefinedLine"
	case StackUnderflow:
		return "StackUnderflow"
	case DomainError:
		return "DomainError"
	case DivisionByZero:
		return "DivisionByZero"
	case ArityError:
		return "ArityError"
	case UnknownCommandError:
		return "UnknownCommand"
	case IOError:
		return "IOError"
	case StackOverflow:
		return "StackOverflow"
	}
	return "Unknown"
}
