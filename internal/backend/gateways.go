package backend

import (
	"github.com/wichananm65/pharmachain-portal/internal/admin"
	"github.com/wichananm65/pharmachain-portal/internal/auth"
	"github.com/wichananm65/pharmachain-portal/internal/catalog"
	"github.com/wichananm65/pharmachain-portal/internal/checkout"
	"github.com/wichananm65/pharmachain-portal/internal/dashboard"
	"github.com/wichananm65/pharmachain-portal/internal/order"
	"github.com/wichananm65/pharmachain-portal/internal/product"
	"github.com/wichananm65/pharmachain-portal/internal/profile"
)

var (
	_ catalog.Gateway       = (*Client)(nil)
	_ checkout.OrderGateway = (*Client)(nil)
	_ order.Gateway         = (*Client)(nil)
	_ product.Gateway       = (*Client)(nil)
	_ profile.Gateway       = (*Client)(nil)
	_ dashboard.Gateway     = (*Client)(nil)
	_ auth.Gateway          = (*AuthAPI)(nil)
	_ admin.Gateway         = (*AdminAPI)(nil)
)
