// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/vidshare/internal/gateway"
	"github.com/taibuivan/vidshare/internal/platform/apperr"
	"github.com/taibuivan/vidshare/internal/platform/async"
	"github.com/taibuivan/vidshare/internal/platform/constants"
	"github.com/taibuivan/vidshare/internal/platform/validate"
	"github.com/taibuivan/vidshare/internal/session"
)

const (
	msgSignupSucceeded = "Signup successful. Check your email for password."
	msgSignupFailed    = "Signup failed"
	msgLoginFailed     = "Login failed"
)

// signupField is one input of the signup form.
type signupField struct {
	Name        string
	Placeholder string
	Type        string
}

var signupFields = []signupField{
	{Name: "firstName", Placeholder: "First name", Type: "text"},
	{Name: "lastName", Placeholder: "Last name", Type: "text"},
	{Name: "userName", Placeholder: "Username", Type: "text"},
	{Name: "email", Placeholder: "Email", Type: "email"},
	{Name: "mobileNum", Placeholder: "Mobile number", Type: "tel"},
}

type authPage struct {
	page
	Pending bool
	Fields  []signupField
}

// # Signup

func (handler *Handler) signupForm(writer http.ResponseWriter, request *http.Request) {
	s := handler.screen(request)
	handler.renderer.Render(writer, request, http.StatusOK, "signup.html", authPage{
		page:    handler.page(request, s, "Sign up"),
		Pending: handler.runner.Status(request.Context(), s.key(opRegister)) == async.Pending,
		Fields:  signupFields,
	})
}

/*
Signup registers an account. On success the user is sent to the login page;
on failure the form is shown again, blank, with the server's message.

POST /signup
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	s := handler.screen(request)

	registration := gateway.Registration{
		FirstName: normalize(request.PostFormValue("firstName")),
		LastName:  normalize(request.PostFormValue("lastName")),
		UserName:  normalize(request.PostFormValue("userName")),
		Email:     normalize(request.PostFormValue("email")),
		MobileNum: normalize(request.PostFormValue("mobileNum")),
	}

	err := (&validate.Validator{}).
		RequiredMsg("firstName", registration.FirstName, "First name is required").
		RequiredMsg("lastName", registration.LastName, "Last name is required").
		RequiredMsg("userName", registration.UserName, "Username is required").
		RequiredMsg("email", registration.Email, "Email is required").
		Email("email", registration.Email).
		RequiredMsg("mobileNum", registration.MobileNum, "Mobile number is required").
		Err()
	if err != nil {
		handler.notify(request, s, NoticeError, apperr.MessageOr(err, msgSignupFailed))
		redirect(writer, request, constants.RouteSignup)
		return
	}

	state := async.Run(request.Context(), handler.runner, async.Task[struct{}]{
		Key: s.key(opRegister),
		Call: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.gateway.Register(ctx, registration)
		},
	})

	switch state.Phase {
	case async.Succeeded:
		s.logger.InfoContext(request.Context(), "signup_succeeded", slog.String("user_name", registration.UserName))
		handler.notify(request, s, NoticeSuccess, msgSignupSucceeded)
		redirect(writer, request, constants.RouteLogin)
	case async.Failed:
		handler.notify(request, s, NoticeError, authFailureMessage(state.Err, msgSignupFailed))
		redirect(writer, request, constants.RouteSignup)
	default:
		redirect(writer, request, constants.RouteSignup)
	}
}

// # Login

func (handler *Handler) loginForm(writer http.ResponseWriter, request *http.Request) {
	s := handler.screen(request)
	handler.renderer.Render(writer, request, http.StatusOK, "login.html", authPage{
		page:    handler.page(request, s, "Log in"),
		Pending: handler.runner.Status(request.Context(), s.key(opLogin)) == async.Pending,
	})
}

/*
Login authenticates and establishes the tab's session.

POST /login

On success the session is stored (token and user together) and the user is
sent to the home page. On failure the form is shown again, blank.
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	s := handler.screen(request)

	credentials := gateway.Credentials{
		UserName: normalize(request.PostFormValue("userName")),
		Password: request.PostFormValue("password"),
	}

	err := (&validate.Validator{}).
		RequiredMsg("userName", credentials.UserName, "Username is required").
		RequiredMsg("password", credentials.Password, "Password is required").
		Err()
	if err != nil {
		handler.notify(request, s, NoticeError, apperr.MessageOr(err, msgLoginFailed))
		redirect(writer, request, constants.RouteLogin)
		return
	}

	state := async.Run(request.Context(), handler.runner, async.Task[session.Session]{
		Key: s.key(opLogin),
		Call: func(ctx context.Context) (session.Session, error) {
			return s.gateway.Login(ctx, credentials)
		},
		Apply: s.store.Set,
	})

	switch state.Phase {
	case async.Succeeded:
		redirect(writer, request, constants.RouteHome)
	case async.Failed:
		s.logger.InfoContext(request.Context(), "login_failed", slog.Any("error", state.Err))
		handler.notify(request, s, NoticeError, authFailureMessage(state.Err, msgLoginFailed))
		redirect(writer, request, constants.RouteLogin)
	default:
		redirect(writer, request, constants.RouteLogin)
	}
}

// authFailureMessage returns the notice for a failed signup or login. Both run
// without a session, so a rejection that tore the tab down still reports the
// server's own reason, never the expired-session text.
func authFailureMessage(err error, fallback string) string {
	if apperr.HasCode(err, apperr.CodeSessionExpired) {
		err = apperr.As(err).Cause
	}
	return apperr.MessageOr(err, fallback)
}

// # Logout

// logout clears the tab's session. It is public so a stale tab can always
// leave.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	s := handler.screen(request)
	if err := s.store.Clear(request.Context()); err != nil {
		s.logger.ErrorContext(request.Context(), "logout_failed", slog.Any("error", err))
	}
	redirect(writer, request, constants.RouteLogin)
}
