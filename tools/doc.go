// Package tools defines tool contracts and the stock tool set.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema, handler.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - Registry: stable tool specs plus panic-free dispatch by name.
//   - Stock tools: get_stock_price, get_company_ceo, find_ticker_symbol,
//     ask_user_for_clarification.
//   - Invariants: an unknown tool name yields an empty result, never an
//     error; a lookup failure reports on the console and yields an empty
//     result; only a malformed invocation is an error.
package tools
