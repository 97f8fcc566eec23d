package handler

import (
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coffee-shop-api/internal/middleware"
	"github.com/iliyamo/coffee-shop-api/internal/model"
	"github.com/iliyamo/coffee-shop-api/internal/repository"
)

const maxCommentLen = 1000

// ReviewHandler serves review creation, listing, update and delete.
// Creation is purchase-gated: only customers with a completed order
// containing the coffee may review it.
type ReviewHandler struct {
	Reviews *repository.ReviewRepo
	Coffees *repository.CoffeeRepo
	Orders  *repository.OrderRepo
	PageDef int
	PageMax int
}

// NewReviewHandler constructs a ReviewHandler.
func NewReviewHandler(reviews *repository.ReviewRepo, coffees *repository.CoffeeRepo, orders *repository.OrderRepo, pageDef, pageMax int) *ReviewHandler {
	return &ReviewHandler{Reviews: reviews, Coffees: coffees, Orders: orders, PageDef: pageDef, PageMax: pageMax}
}

type reviewRequest struct {
	CoffeeID string `json:"coffee_id"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

func validRating(r int) bool { return r >= 1 && r <= 5 }

// Create handles POST /customer/reviews.
func (h *ReviewHandler) Create(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusUnprocessableEntity, CodeValidation, "invalid request body")
	}
	if req.CoffeeID == "" {
		return fail(c, http.StatusUnprocessableEntity, CodeValidation, "coffee_id is required")
	}
	if !validRating(req.Rating) {
		return fail(c, http.StatusUnprocessableEntity, CodeValidation, "rating must be between 1 and 5")
	}
	if len(req.Comment) > maxCommentLen {
		return fail(c, http.StatusUnprocessableEntity, CodeValidation, "comment exceeds 1000 characters")
	}

	ctx := c.Request().Context()
	if _, err := h.Coffees.GetByID(ctx, req.CoffeeID); err != nil {
		return repoError(c, err, "coffee not found")
	}
	purchased, err := h.Orders.HasCompletedPurchase(ctx, u.ID, req.CoffeeID)
	if err != nil {
		return dbError(c, err)
	}
	if !purchased {
		return fail(c, http.StatusBadRequest, CodePurchaseRequired, "only purchased products can be reviewed")
	}

	rv, err := h.Reviews.Create(ctx, model.Review{
		UserID:   u.ID,
		CoffeeID: req.CoffeeID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return fail(c, http.StatusBadRequest, CodeDuplicateReview, "you have already reviewed this product")
		}
		return repoError(c, err, "coffee not found")
	}
	return respond(c, http.StatusCreated, rv, "review created")
}

// My handles GET /customer/reviews/my: the caller's reviews with the
// reviewed coffee attached, newest first.
func (h *ReviewHandler) My(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	limit, skip := pageParams(c, h.PageDef, h.PageMax)
	reviews, err := h.Reviews.ListByUser(c.Request().Context(), u.ID, limit, skip)
	if err != nil {
		return dbError(c, err)
	}
	return respond(c, http.StatusOK, reviews, "reviews retrieved")
}

// ByCoffee handles GET /customer/reviews/coffee/:id. The route is
// public; when the caller is authenticated their own review is sorted
// to the front of the page. The message carries the mean rating over
// the returned page.
func (h *ReviewHandler) ByCoffee(c echo.Context) error {
	ctx := c.Request().Context()
	coffeeID := c.Param("id")
	if _, err := h.Coffees.GetByID(ctx, coffeeID); err != nil {
		return repoError(c, err, "coffee not found")
	}
	limit, skip := pageParams(c, h.PageDef, h.PageMax)
	reviews, err := h.Reviews.ListByCoffee(ctx, coffeeID, limit, skip)
	if err != nil {
		return dbError(c, err)
	}

	if u := middleware.CurrentUser(c); u != nil {
		sort.SliceStable(reviews, func(i, j int) bool {
			return reviews[i].UserID == u.ID && reviews[j].UserID != u.ID
		})
	}

	message := "reviews retrieved, no reviews yet"
	if len(reviews) > 0 {
		sum := 0
		for _, rv := range reviews {
			sum += rv.Rating
		}
		message = fmt.Sprintf("reviews retrieved, average rating: %.1f", float64(sum)/float64(len(reviews)))
	}
	return respond(c, http.StatusOK, reviews, message)
}

// Update handles PUT /customer/reviews/:id with an ownership check.
func (h *ReviewHandler) Update(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusUnprocessableEntity, CodeValidation, "invalid request body")
	}
	if !validRating(req.Rating) {
		return fail(c, http.StatusUnprocessableEntity, CodeValidation, "rating must be between 1 and 5")
	}
	if len(req.Comment) > maxCommentLen {
		return fail(c, http.StatusUnprocessableEntity, CodeValidation, "comment exceeds 1000 characters")
	}

	ctx := c.Request().Context()
	rv, err := h.Reviews.GetByID(ctx, c.Param("id"))
	if err != nil {
		return repoError(c, err, "review not found")
	}
	if rv.UserID != u.ID {
		return fail(c, http.StatusForbidden, CodeForbidden, "review belongs to another user")
	}
	updated, err := h.Reviews.Update(ctx, rv.ID, req.Rating, req.Comment)
	if err != nil {
		return repoError(c, err, "review not found")
	}
	return respond(c, http.StatusOK, updated, "review updated")
}

// Delete handles DELETE /customer/reviews/:id with an ownership check.
func (h *ReviewHandler) Delete(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	rv, err := h.Reviews.GetByID(ctx, c.Param("id"))
	if err != nil {
		return repoError(c, err, "review not found")
	}
	if rv.UserID != u.ID {
		return fail(c, http.StatusForbidden, CodeForbidden, "review belongs to another user")
	}
	if err := h.Reviews.Delete(ctx, rv.ID); err != nil {
		return repoError(c, err, "review not found")
	}
	return respond(c, http.StatusOK, nil, "review deleted")
}
