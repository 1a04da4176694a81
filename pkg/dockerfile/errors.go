package dockerfile

import "errors"

var ErrInvalidInstruction = errors.New("invalid instruction")
var ErrDuplicateStageName = errors.New("stage name already declared")
var ErrUnknownStageReference = errors.New("copy references undeclared stage")
