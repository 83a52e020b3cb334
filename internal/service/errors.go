package service

import "fmt"

// ErrorKind classifies where the flow failed, so the transport layer can map
// it to a status code without parsing messages.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindDependency ErrorKind = "dependency"
	KindQuery      ErrorKind = "query"
	KindMutation   ErrorKind = "mutation"
	KindGateway    ErrorKind = "gateway"
)

// FlowError is terminal for the current call: no step is retried and already
// committed steps are not rolled back.
type FlowError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *FlowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *FlowError) Unwrap() error {
	return e.Err
}

func validationError(message string) *FlowError {
	return &FlowError{Kind: KindValidation, Message: message}
}

func notFoundError(message string) *FlowError {
	return &FlowError{Kind: KindNotFound, Message: message}
}

func dependencyError(message string) *FlowError {
	return &FlowError{Kind: KindDependency, Message: message}
}

func queryError(message string, err error) *FlowError {
	return &FlowError{Kind: KindQuery, Message: message, Err: err}
}

func mutationError(message string, err error) *FlowError {
	return &FlowError{Kind: KindMutation, Message: message, Err: err}
}

func gatewayError(message string, err error) *FlowError {
	return &FlowError{Kind: KindGateway, Message: message, Err: err}
}
