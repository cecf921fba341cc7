package main

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/noah-isme/toko-pricing/internal/packaging"
	"github.com/noah-isme/toko-pricing/internal/pricing"
	"github.com/noah-isme/toko-pricing/internal/storefront"
	"github.com/noah-isme/toko-pricing/internal/tags"
)

type resolveRequest struct {
	Customer tags.Customer      `json:"customer"`
	Address  *tags.Address      `json:"address,omitempty"`
	Options  []packaging.Option `json:"options"`
}

// documentSource serves the documents embedded in a request.
type documentSource struct {
	req resolveRequest
}

func (d documentSource) Customer(_ context.Context, id string) (tags.Customer, error) {
	if id != d.req.Customer.ID {
		return tags.Customer{}, storefront.ErrNotFound
	}
	return d.req.Customer, nil
}

func (d documentSource) Address(_ context.Context, id string) (tags.Address, error) {
	if d.req.Address == nil || id != d.req.Address.ID {
		return tags.Address{}, storefront.ErrNotFound
	}
	return *d.req.Address, nil
}

func newResolveCmd(a *app) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "resolve [request.json]",
		Short: "Resolve effective tags and visible packaging pricing",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req resolveRequest
			if err := readDocument(args, cmd.InOrStdin(), &req); err != nil {
				return err
			}
			if req.Customer.ID == "" {
				req.Customer.ID = "anonymous"
			}
			addressID := ""
			if req.Address != nil {
				if req.Address.ID == "" {
					req.Address.ID = "inline"
				}
				addressID = req.Address.ID
			}
			for _, ref := range append(append([]tags.Reference{}, req.Customer.Tags...), addressTags(req.Address)...) {
				if err := ref.Validate(); err != nil {
					return fmt.Errorf("tag %q: %w", ref.FullTag, err)
				}
			}
			svc := a.service(documentSource{req: req})
			if at != "" {
				now, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("parse --at: %w", err)
				}
				svc.Now = func() time.Time { return now }
			}
			out, err := svc.ResolvePackaging(a.context(cmd.Context()), req.Customer.ID, addressID, req.Options)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "RFC3339 time promotion validity is checked at (default now)")
	return cmd
}

type previewRequest struct {
	Draft pricing.Draft       `json:"draft"`
	List  decimal.Decimal     `json:"list"`
	Sale  decimal.NullDecimal `json:"sale"`
}

type previewResponse struct {
	Draft  pricing.Draft   `json:"draft"`
	Result *pricing.Result `json:"result,omitempty"`
}

func newPreviewCmd(a *app) *cobra.Command {
	var method string
	cmd := &cobra.Command{
		Use:   "preview [draft.json]",
		Short: "Preview the promotional price and discount chain of a draft",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req previewRequest
			if err := readDocument(args, cmd.InOrStdin(), &req); err != nil {
				return err
			}
			if method != "" {
				kind := pricing.MethodKind(method)
				if !kind.Valid() {
					return fmt.Errorf("%w: %q", pricing.ErrInvalidMethod, method)
				}
				req.Draft = req.Draft.Select(kind, req.List)
			}
			draft, res, ok := a.service(nil).Preview(cmd.Context(), req.Draft, req.List, req.Sale)
			out := previewResponse{Draft: draft}
			if ok {
				out.Result = &res
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&method, "method", "", "switch the draft to percentage, amount or direct before previewing")
	return cmd
}

func newTagCmd() *cobra.Command {
	tagCmd := &cobra.Command{
		Use:   "tag",
		Short: "Build and validate full tags",
	}
	tagCmd.AddCommand(&cobra.Command{
		Use:   "parse <full-tag>",
		Short: "Split and validate a prefix:code tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix, code, ok := tags.ParseFullTag(args[0])
			if !ok {
				return tags.ErrMalformedFullTag
			}
			if !tags.IsValidPrefix(prefix) || !tags.IsValidCode(code) {
				return tags.ErrInvalidSegment
			}
			return writeJSON(cmd.OutOrStdout(), map[string]string{"prefix": prefix, "code": code})
		},
	}, &cobra.Command{
		Use:   "build <prefix> <code>",
		Short: "Join and validate a prefix and code",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := tags.NewReference(args[0], args[1])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), ref)
		},
	})
	return tagCmd
}

func addressTags(a *tags.Address) []tags.Reference {
	if a == nil {
		return nil
	}
	return a.TagOverrides
}
