package dynamo

import (
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// strKey builds a DynamoDB primary key map with a single string attribute.
func strKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

// updateExpr is a built DynamoDB update expression with its attribute maps.
type updateExpr struct {
	Expr   string
	Names  map[string]string
	Values map[string]types.AttributeValue
}

// buildUpdateExpr converts a map of field->value and a list of fields to drop
// into a deterministic "SET ... REMOVE ..." expression. Keys are sorted so
// the same input always yields the same expression. The REMOVE clause is how
// consumed tokens leave their sparse GSI in the same write that records the
// state change.
func buildUpdateExpr(sets map[string]interface{}, removes []string) (*updateExpr, error) {
	if len(sets) == 0 && len(removes) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	ue := &updateExpr{
		Names:  make(map[string]string),
		Values: make(map[string]types.AttributeValue),
	}

	setKeys := make([]string, 0, len(sets))
	for k := range sets {
		setKeys = append(setKeys, k)
	}
	sort.Strings(setKeys)

	i := 0
	for _, k := range setKeys {
		nameKey := fmt.Sprintf("#f%d", i)
		valueKey := fmt.Sprintf(":v%d", i)
		av, err := attributevalue.Marshal(sets[k])
		if err != nil {
			return nil, fmt.Errorf("marshal field %s: %w", k, err)
		}
		ue.Names[nameKey] = k
		ue.Values[valueKey] = av
		if i > 0 {
			ue.Expr += ", "
		} else {
			ue.Expr = "SET "
		}
		ue.Expr += fmt.Sprintf("%s = %s", nameKey, valueKey)
		i++
	}

	for j, k := range removes {
		nameKey := fmt.Sprintf("#r%d", j)
		ue.Names[nameKey] = k
		if j > 0 {
			ue.Expr += ", " + nameKey
			continue
		}
		if ue.Expr != "" {
			ue.Expr += " "
		}
		ue.Expr += "REMOVE " + nameKey
	}

	return ue, nil
}
