// Package auth owns session state: the current user, the session
// token, and the loading/error flags. Like the cart, all mutation goes
// through a reducer over tagged actions. The container layers the
// remote calls, persistence, and the fail-closed startup verification
// on top of the pure reducer.
package auth

import (
	"shopfront/internal/storeapi"
)

// State is the session state. Invariant: IsAuthenticated is true iff
// both User and Token are set; the reducer maintains this, callers
// never set the flag directly.
type State struct {
	User            *storeapi.User `json:"user"`
	Token           string         `json:"token"`
	IsAuthenticated bool           `json:"isAuthenticated"`
	IsLoading       bool           `json:"isLoading"`
	Err             string         `json:"error,omitempty"`
}

// action is the tagged union of auth transitions.
type action interface{ isAuthAction() }

type loginStartAction struct{}

type loginSuccessAction struct {
	Token string
	User  storeapi.User
}

type loginFailureAction struct{ Message string }

type registerStartAction struct{}

type registerSuccessAction struct {
	Token string
	User  storeapi.User
}

type registerFailureAction struct{ Message string }

type loadUserStartAction struct{}

type loadUserSuccessAction struct{ User storeapi.User }

type loadUserFailureAction struct{ Message string }

type logoutAction struct{}

type clearErrorAction struct{}

func (loginStartAction) isAuthAction()      {}
func (loginSuccessAction) isAuthAction()    {}
func (loginFailureAction) isAuthAction()    {}
func (registerStartAction) isAuthAction()   {}
func (registerSuccessAction) isAuthAction() {}
func (registerFailureAction) isAuthAction() {}
func (loadUserStartAction) isAuthAction()   {}
func (loadUserSuccessAction) isAuthAction() {}
func (loadUserFailureAction) isAuthAction() {}
func (logoutAction) isAuthAction()          {}
func (clearErrorAction) isAuthAction()      {}

// reduce maps (state, action) to the next state.
func reduce(state State, a action) State {
	switch a := a.(type) {
	case loginStartAction, registerStartAction, loadUserStartAction:
		state.IsLoading = true
		state.Err = ""
		return state

	case loginSuccessAction:
		return authenticated(a.Token, a.User)

	case registerSuccessAction:
		return authenticated(a.Token, a.User)

	case loginFailureAction:
		return failed(a.Message)

	case registerFailureAction:
		return failed(a.Message)

	case loadUserFailureAction:
		return failed(a.Message)

	case loadUserSuccessAction:
		user := a.User
		state.IsLoading = false
		state.IsAuthenticated = true
		state.User = &user
		state.Err = ""
		return state

	case logoutAction:
		return State{}

	case clearErrorAction:
		state.Err = ""
		return state

	default:
		return state
	}
}

func authenticated(token string, user storeapi.User) State {
	u := user
	return State{
		User:            &u,
		Token:           token,
		IsAuthenticated: true,
	}
}

func failed(message string) State {
	return State{Err: message}
}
