package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/aussiebroadwan/payportal/internal/portal/domain"
	"github.com/aussiebroadwan/payportal/internal/portal/service"
)

// redirectGrace is how long past the redirect delay we wait for the timer.
const redirectGrace = 5 * time.Second

var errNotSignedIn = errors.New("not signed in, run: portalctl login -email ...")

func (c *cli) login(ctx context.Context, args []string, register bool) error {
	name := "login"
	if register {
		name = "register"
	}
	fl := flag.NewFlagSet(name, flag.ContinueOnError)
	fl.SetOutput(c.out)
	email := fl.String("email", "", "account email")
	password := fl.String("password", os.Getenv("PORTAL_PASSWORD"), "account password")
	if err := fl.Parse(args); err != nil {
		return err
	}

	c.session.Restore(ctx, nil)

	action := c.session.Login
	if register {
		action = c.session.Register
	}
	if _, err := action(ctx, *email, *password); err != nil {
		return userError(err)
	}

	fmt.Fprintf(c.out, "signed in as %s\n", *email)
	return nil
}

func (c *cli) logout(ctx context.Context) error {
	c.session.Restore(ctx, nil)
	if err := c.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "signed out")
	return nil
}

func (c *cli) dashboard(ctx context.Context, args []string) error {
	fl := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	fl.SetOutput(c.out)
	pay := fl.String("pay", "", "deep-linked product id")
	amount := fl.String("amount", "", "deep-linked amount")
	returnURL := fl.String("return", "", "where to go once the subscription is active")
	if err := fl.Parse(args); err != nil {
		return err
	}

	query := deepLink(*pay, *amount)
	if *returnURL != "" {
		query.Set("return_url", *returnURL)
	}

	dash, view, err := c.mount(ctx, query)
	if err != nil {
		return err
	}
	defer dash.Unmount()

	printView(c.out, view)
	if view.Kind != domain.ViewRedirecting {
		return nil
	}

	select {
	case <-c.env.Navigated():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(view.RedirectIn + redirectGrace):
		return errors.New("timed out waiting for the return redirect")
	}
}

func (c *cli) submit(ctx context.Context, args []string) error {
	fl := flag.NewFlagSet("submit", flag.ContinueOnError)
	fl.SetOutput(c.out)
	file := fl.String("file", "", "image of the transfer receipt")
	product := fl.String("product", "", "product id")
	amount := fl.String("amount", "", "amount paid")
	pay := fl.String("pay", "", "deep-linked product id, fixes -product and -amount")
	if err := fl.Parse(args); err != nil {
		return err
	}

	draft := domain.UploadDraft{ProductID: *product, Amount: *amount}
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			return fmt.Errorf("read proof: %w", err)
		}
		draft.File = &domain.ProofFile{
			Name:        filepath.Base(*file),
			ContentType: http.DetectContentType(data),
			Data:        data,
		}
	}

	var query url.Values
	if *pay != "" {
		query = deepLink(*pay, *amount)
	}

	dash, _, err := c.mount(ctx, query)
	if err != nil {
		return err
	}
	defer dash.Unmount()

	view, err := dash.Submit(ctx, draft)
	if err != nil {
		return userError(err)
	}
	printView(c.out, view)
	return nil
}

func (c *cli) mount(ctx context.Context, query url.Values) (*service.Dashboard, domain.View, error) {
	c.session.Restore(ctx, query)
	if c.session.Guard() != service.GuardAllow {
		return nil, domain.View{}, errNotSignedIn
	}

	dash := c.portal.Dashboard(c.env, c.session)
	view, err := dash.Mount(ctx, query)
	if err != nil {
		dash.Unmount()
		return nil, domain.View{}, err
	}
	return dash, view, nil
}

func deepLink(pay, amount string) url.Values {
	q := url.Values{}
	if pay != "" {
		q.Set("pay", pay)
	}
	if amount != "" {
		q.Set("amount", amount)
	}
	return q
}

func userError(err error) error {
	if msg := service.UserMessage(err); msg != "" {
		return errors.New(msg)
	}
	return err
}

func printView(w io.Writer, v domain.View) {
	if s := v.Status; s != nil {
		fmt.Fprintf(w, "status:   %s\n", s.SubscriptionStatus)
		if s.DaysRemaining > 0 {
			fmt.Fprintf(w, "days:     %d\n", s.DaysRemaining)
		}
		if s.ExpirationDate != "" {
			fmt.Fprintf(w, "expires:  %s\n", s.ExpirationDate)
		}
	} else {
		fmt.Fprintln(w, "status:   unavailable")
	}

	fmt.Fprintf(w, "view:     %s\n", v.Kind)
	switch v.Kind {
	case domain.ViewRedirecting:
		fmt.Fprintf(w, "returning in %s\n", v.RedirectIn)
	case domain.ViewPending:
		fmt.Fprintln(w, "payment under review, run dashboard again to check")
	case domain.ViewPaymentForm:
		if v.Forced.Forced {
			fmt.Fprintf(w, "pay:      %s (amount %s)\n", v.Forced.ProductID, v.Forced.Amount)
		} else if v.Draft.ProductID != "" {
			fmt.Fprintf(w, "product:  %s\n", v.Draft.ProductID)
		}
	}
	if v.Notice != "" {
		fmt.Fprintln(w, v.Notice)
	}
}
