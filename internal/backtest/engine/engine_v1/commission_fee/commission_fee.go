package commission_fee

type CommissionFee interface {
	// Calculate the commission fee for filling quantity units at price and returns the fee in USD
	Calculate(quantity float64, price float64) float64
}

type Broker string

const (
	BrokerPercentage        Broker = "percentage"
	BrokerInteractiveBroker Broker = "interactive_broker"
	BrokerZero              Broker = "zero_commission"
)

var AllBrokers = []any{
	BrokerPercentage,
	BrokerInteractiveBroker,
	BrokerZero,
}

// GetCommissionFeeHandler returns the fee model of a broker. rate is only used by the
// percentage model. Unknown brokers fall back to the percentage model.
func GetCommissionFeeHandler(broker Broker, rate float64) CommissionFee {
	switch broker {
	case BrokerInteractiveBroker:
		return NewInteractiveBrokerCommissionFee()
	case BrokerZero:
		return NewZeroCommissionFee()
	default:
		return NewPercentageCommissionFee(rate)
	}
}
