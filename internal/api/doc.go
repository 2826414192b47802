// Package api provides the CoinMarketCap REST client.
//
// Endpoints:
//   - Production: https://pro-api.coinmarketcap.com
//   - Sandbox: https://sandbox-api.coinmarketcap.com
//
// Only GET /v1/cryptocurrency/listings/historical is used. Requests are made
// once; there is no retry.
package api
