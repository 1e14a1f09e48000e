package handlers

import (
	"context"
	"net/http"

	"github.com/datamesh/mesh-console/pkg/auth"
	"github.com/datamesh/mesh-console/pkg/console"
	"github.com/datamesh/mesh-console/pkg/errs"
	"github.com/datamesh/mesh-console/pkg/service"
	"github.com/datamesh/mesh-console/pkg/service/core/transport"
	"github.com/go-chi/chi"
)

type DataProductHandler struct {
	dataProductService service.DataProductService
	pages              *pages
}

func (h *DataProductHandler) ProductRegistrationPage(ctx context.Context, r *http.Request, _ any) (*transport.Page, error) {
	const op errs.Op = "DataProductHandler.ProductRegistrationPage"

	domainID := chi.URLParamFromCtx(ctx, "domainId")

	form, err := h.dataProductService.GetRegistrationForm(ctx, auth.GetUser(ctx), domainID)
	if err != nil {
		return nil, errs.E(op, errs.Parameter("domainId"), err)
	}

	return h.pages.page(ctx, r, console.PageProductRegistration, "", form,
		homeCrumb,
		console.Breadcrumb{Label: "Register data product"},
	), nil
}

func (h *DataProductHandler) RegisterDataProduct(ctx context.Context, r *http.Request, in service.NewDataProduct) (*transport.Redirect, error) {
	const op errs.Op = "DataProductHandler.RegisterDataProduct"

	user := auth.GetUser(ctx)
	if user == nil {
		return nil, errs.E(errs.Unauthenticated, op, errs.Str("no user in context"))
	}

	dp, err := h.dataProductService.RegisterDataProduct(ctx, user, chi.URLParamFromCtx(ctx, "domainId"), in)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return transport.NewRedirectWithBody(service.DataProductDetailsPath(dp.Slug), dp, r), nil
}

func (h *DataProductHandler) DataProductDetailsPage(ctx context.Context, r *http.Request, _ any) (*transport.Page, error) {
	const op errs.Op = "DataProductHandler.DataProductDetailsPage"

	details, err := h.dataProductService.GetDataProductDetails(ctx, auth.GetUser(ctx), chi.URLParamFromCtx(ctx, "dataProduct"))
	if err != nil {
		return nil, errs.E(op, errs.Parameter("dataProduct"), err)
	}

	return h.pages.page(ctx, r, console.PageDataProductDetails, "", details,
		homeCrumb,
		console.Breadcrumb{Label: details.Product.Name},
	), nil
}

func NewDataProductHandler(dataProductService service.DataProductService, pages *pages) *DataProductHandler {
	return &DataProductHandler{
		dataProductService: dataProductService,
		pages:              pages,
	}
}
