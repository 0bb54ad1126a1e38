package commission_fee

type InteractiveBrokerCommissionFee struct {
}

func NewInteractiveBrokerCommissionFee() CommissionFee {
	return &InteractiveBrokerCommissionFee{}
}

// Calculate charges $0.005 per share with a $1 minimum. Price does not matter.
func (c *InteractiveBrokerCommissionFee) Calculate(quantity float64, _ float64) float64 {
	fee := 0.005 * quantity
	if fee < 1.0 {
		return 1.0
	}

	return fee
}
