// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

// Package main provides the Kennelwise HTTP server
//
// Kennelwise is a multi-tenant operations platform for pet boarding,
// daycare, and grooming facilities.
//
// @title Kennelwise API
// @version 1.0
// @description Multi-tenant operations platform for pet boarding, daycare, and grooming facilities
// @description
// @description ## Tenancy
// @description
// @description Every data endpoint is tenant-scoped. Resolve the tenant either by
// @description sending `X-Tenant-ID` or by calling through the facility's subdomain
// @description (e.g. `sunnypaws.kennelwise.app`). Tokens are minted per tenant and
// @description rejected when presented against a different tenant.
// @description
// @description ## Authentication
// @description
// @description Staff authenticate via `/api/v1/auth/login` and send the returned JWT
// @description as a Bearer token. Roles escalate staff < manager < admin. Tenant
// @description provisioning endpoints require the platform `X-Api-Key` instead.
// @description
// @description ## Rate Limiting
// @description
// @description Default: 100 requests per minute per IP. Login is limited to 5 per
// @description 5 minutes; reports to 20 per minute.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "status": "error",
// @description   "data": null,
// @description   "error": {
// @description     "code": "ERROR_CODE",
// @description     "message": "Human-readable error message",
// @description     "details": {}
// @description   },
// @description   "metadata": {
// @description     "timestamp": "2026-08-29T12:34:56Z"
// @description   }
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/kennelwise/kennelwise/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8480
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Staff JWT. Obtain via /api/v1/auth/login and send as "Bearer {token}".
//
// @securityDefinitions.apikey SuperAdminKey
// @in header
// @name X-Api-Key
// @description Platform operator key for tenant provisioning endpoints.
//
// @tag.name Core
// @tag.description Health checks, login, and the websocket event stream
//
// @tag.name Booking
// @tag.description Reservations, availability queries, and double-booking audits
//
// @tag.name Catalog
// @tag.description Customers, pets, resources, services, and add-ons
//
// @tag.name Billing
// @tag.description Invoices, payments, and revenue reports
//
// @tag.name Operations
// @tag.description Staff accounts, shift scheduling, and tenant administration
package main
