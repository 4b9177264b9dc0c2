// Package types provides the value types shared across orderdesk.
//
// # Money
//
// Money holds an amount rounded to two fraction digits. Every arithmetic
// operation returns a new value and re-applies the rounding rule
// floor(x*100 + 0.5) / 100, so chained operations round at each step:
//
//	third, _ := types.NewMoney(10).Divide(3) // 3.33
//	back := third.Multiply(3)                // 9.99, not 10.00
//
// # Tax
//
// CalculateTax maps an amount and a TaxType to the tax owed at the fixed
// TaxRate of 5%:
//
//	types.CalculateTax(types.NewMoney(100), types.TaxExternal) // 5.00
//	types.CalculateTax(types.NewMoney(105), types.TaxInternal) // 5.00
//	types.CalculateTax(types.NewMoney(100), types.TaxNone)     // 0.00
//
// # Order numbers and date ranges
//
// GenerateOrderNumber produces prefix + unix milliseconds + a three-digit
// random suffix. DateRange is a closed interval used by reporting queries.
//
// # Validation
//
// Every validation failure wraps ErrValidation:
//
//	if errors.Is(err, types.ErrValidation) {
//	    // reject the input
//	}
package types
